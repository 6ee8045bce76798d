package datetime

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/Kostroma329/Calendar-bot/lexicon"
)

const (
	maxHour     = 23
	maxMinute   = 59
	maxDay      = 31
	defaultHour = 13 // clock assumed for a date without one
	daysPerWeek = 7
)

// Clock patterns run on lower-cased text. Go's regexp has no lookbehind,
// so a leading (?:^|\D) keeps "2024" from matching as "24". Trailing
// boundaries are checked in code because \b is ASCII-only.
var (
	// reColon matches "19:00", "в 19:00", "начало в 13:00".
	reColon = regexp.MustCompile(`(?:^|\D)(\d{1,2}):(\d{2})`)

	// reDotClock matches "в 19.00". The "в" is required so that dates
	// such as "20.11" are not read as clocks.
	reDotClock = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])в\s+(\d{1,2})\.(\d{2})`)

	// reHourMin matches "19 ч 30 мин" and "19ч30мин".
	reHourMin = regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*ч\s*(\d{1,2})\s*мин`)

	// reHourShort matches "19 ч" and "19ч".
	reHourShort = regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*ч`)

	// reHourWord matches "21 час", "2 часа", "19 часов".
	reHourWord = regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*час(?:а|ов)?`)
)

// hourWords follow an hour number: "в семь часов вечера".
var hourWords = []string{"час", "часа", "часов", "ч"}

// Numeric date-looking substrings handed to the fallback date parser.
var (
	reNumericDate = regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{2,4}`)
	reISODate     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}(?:[ T]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-](?:0\d|1[0-4]):?\d{2})?)?`)
)

// compileMonthDate builds the "<day> <month>" pattern. Month words are
// sorted longest first because Go alternation is leftmost-first.
func compileMonthDate(months []lexicon.Month) *regexp.Regexp {
	if len(months) == 0 {
		return nil
	}
	words := make([]string, 0, len(months))
	for _, m := range months {
		words = append(words, m.Word)
	}
	return regexp.MustCompile(`(?:^|\D)(\d{1,2})\s+(` + alternation(words) + `)`)
}

// compileDayPart builds the "<hour> <day part>" pattern. The Latin
// "am"/"pm" markers are always accepted.
func compileDayPart(parts []lexicon.DayPart) *regexp.Regexp {
	words := []string{string(lexicon.AM), string(lexicon.PM)}
	for _, p := range parts {
		words = append(words, p.Word)
	}
	return regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*(` + alternation(words) + `)`)
}

// alternation quotes words and joins them longest first.
func alternation(words []string) string {
	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
