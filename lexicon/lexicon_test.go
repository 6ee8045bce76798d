package lexicon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	t.Parallel()

	tables := Default()
	require.NotNil(t, tables)

	assert.Len(t, tables.Months, 12)
	assert.Len(t, tables.Weekdays, 7)
	assert.Equal(t, []string{"сегодня", "завтра", "послезавтра"}, phrases(tables.RelativeDays))
	assert.Equal(t, []string{"в", "на", "у"}, tables.Prepositions)

	afternoon, ok := tables.DayPart("дня")
	require.True(t, ok)
	assert.True(t, afternoon.NeedsAt)
	evening, ok := tables.DayPart("вечера")
	require.True(t, ok)
	assert.False(t, evening.NeedsAt)

	name, ok := tables.Activities.Lookup("вальсик")
	require.True(t, ok)
	assert.Equal(t, "Вальс", name)

	name, ok = tables.Activities.Lookup("яблочко")
	require.True(t, ok)
	assert.Equal(t, "Морской", name)

	name, ok = tables.Venues.Canonical("ТРОИЦКОМ")
	require.True(t, ok)
	assert.Equal(t, "Троицкий", name)

	assert.Equal(t, 2, tables.Activities.MaxWords())
	assert.Same(t, tables, Default())
}

func TestDictionaryCanonicalIsImplicitVariant(t *testing.T) {
	t.Parallel()

	d, err := NewDictionary([]Entry{
		{Name: "ДК Горького", Variants: []string{"дк  горьком"}},
	})
	require.NoError(t, err)

	for _, surface := range []string{"дк горького", "дк горьком"} {
		name, ok := d.Lookup(surface)
		assert.True(t, ok, surface)
		assert.Equal(t, "ДК Горького", name)
	}
	assert.Equal(t, []string{"дк горького", "дк горьком"}, d.Variants("ДК Горького"))
	assert.Equal(t, []string{"ДК Горького"}, d.Names())
	assert.Equal(t, 2, d.Len())
}

func TestDictionarySurfacesLongestFirst(t *testing.T) {
	t.Parallel()

	d, err := NewDictionary([]Entry{
		{Name: "Московский", Variants: []string{"московском"}},
		{Name: "КДЦ Московский", Variants: []string{"кдц московском"}},
	})
	require.NoError(t, err)

	surfaces := d.Surfaces()
	require.Len(t, surfaces, 4)
	for i := 1; i < len(surfaces); i++ {
		assert.GreaterOrEqual(t, len(surfaces[i-1]), len(surfaces[i]))
	}
}

func TestDictionaryConflict(t *testing.T) {
	t.Parallel()

	_, err := NewDictionary([]Entry{
		{Name: "Вальс", Variants: []string{"вальс"}},
		{Name: "Белый вальс", Variants: []string{"Вальс"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = NewDictionary([]Entry{{Name: "Вальс"}, {Name: "Вальс"}})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "empty document",
			doc:  "",
			want: ErrEmpty,
		},
		{
			name: "no tables",
			doc:  "prepositions: [в]\n",
			want: ErrEmpty,
		},
		{
			name: "month out of range",
			doc:  "months:\n  - {word: брюмера, number: 13}\n",
			want: ErrInvalid,
		},
		{
			name: "weekday out of range",
			doc:  "weekdays:\n  - {phrase: в субботу, offset: 7}\n",
			want: ErrInvalid,
		},
		{
			name: "bad meridiem",
			doc:  "months:\n  - {word: мая, number: 5}\nday_parts:\n  - {word: вечера, meridiem: evening}\n",
			want: ErrInvalid,
		},
		{
			name: "conflicting venue",
			doc:  "venues:\n  - {name: Максим, variants: [максиме]}\n  - {name: Кафе Максим, variants: [максиме]}\n",
			want: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseCustomTables(t *testing.T) {
	t.Parallel()

	doc := `
activities:
  - name: Кадриль
    variants: [кадриль, кадрилью]
months:
  - {word: Мая, number: 5}
day_parts:
  - {word: вечера, meridiem: PM}
`
	tables, err := Parse([]byte(doc))
	require.NoError(t, err)

	name, ok := tables.Activities.Lookup("кадрилью")
	require.True(t, ok)
	assert.Equal(t, "Кадриль", name)

	m, ok := tables.MonthNumber("мая")
	require.True(t, ok)
	assert.Equal(t, time.May, m)

	p, ok := tables.DayPart("вечера")
	require.True(t, ok)
	assert.Equal(t, PM, p.Meridiem)
	assert.Zero(t, tables.Venues.Len())
}

func TestDayPartApply(t *testing.T) {
	t.Parallel()

	pm := DayPart{Word: "вечера", Meridiem: PM}
	am := DayPart{Word: "ночи", Meridiem: AM}

	assert.Equal(t, 19, pm.Apply(7))
	assert.Equal(t, 12, pm.Apply(12))
	assert.Equal(t, 20, pm.Apply(20))
	assert.Equal(t, 0, am.Apply(12))
	assert.Equal(t, 2, am.Apply(2))
}

func phrases(ks []Keyword) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.Phrase
	}
	return out
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	def := Default()
	b, err := def.Marshal()
	require.NoError(t, err)

	got, err := Parse(b)
	require.NoError(t, err)

	assert.Equal(t, def.Activities.Entries(), got.Activities.Entries())
	assert.Equal(t, def.Venues.Entries(), got.Venues.Entries())
	assert.Equal(t, def.Months, got.Months)
	assert.Equal(t, def.RelativeDays, got.RelativeDays)
	assert.Equal(t, def.Weekdays, got.Weekdays)
	assert.Equal(t, def.DayParts, got.DayParts)
	assert.Equal(t, def.Prepositions, got.Prepositions)
}
