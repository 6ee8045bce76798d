package lexicon

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Kostroma329/Calendar-bot/internal/rucase"
)

// Entry declares one canonical name and the surface forms that map to it.
type Entry struct {
	Name     string   `koanf:"name"`
	Variants []string `koanf:"variants"`
}

// Dictionary maps lower-cased surface forms to canonical names.
// It is immutable after NewDictionary returns and safe for concurrent use.
type Dictionary struct {
	canonical map[string]string   // surface -> canonical name
	variants  map[string][]string // canonical name -> surfaces, sorted
	names     []string            // canonical names in declaration order
	surfaces  []string            // all surfaces, longest first
	maxWords  int                 // word count of the longest surface
}

// NewDictionary builds a Dictionary from entries. Surface forms are
// lower-cased and NFC-composed; the lower-cased canonical name is added as
// an implicit variant. A surface form claimed by two different canonical
// names yields an error wrapping ErrConflict.
func NewDictionary(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		canonical: make(map[string]string),
		variants:  make(map[string][]string, len(entries)),
		names:     make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		name := strings.TrimSpace(rucase.Compose(e.Name))
		if name == "" {
			return nil, fmt.Errorf("lexicon: entry with empty name: %w", ErrInvalid)
		}
		if _, dup := d.variants[name]; dup {
			return nil, fmt.Errorf("lexicon: duplicate canonical name %q: %w", name, ErrConflict)
		}
		d.names = append(d.names, name)

		forms := make([]string, 0, len(e.Variants)+1)
		forms = append(forms, rucase.Lower(name))
		for _, v := range e.Variants {
			forms = append(forms, rucase.Lower(strings.Join(strings.Fields(v), " ")))
		}

		for _, f := range forms {
			if f == "" {
				continue
			}
			if prev, ok := d.canonical[f]; ok {
				if prev != name {
					return nil, fmt.Errorf("lexicon: %q maps to both %q and %q: %w", f, prev, name, ErrConflict)
				}
				continue
			}
			d.canonical[f] = name
			d.variants[name] = append(d.variants[name], f)
			d.surfaces = append(d.surfaces, f)
			d.maxWords = max(d.maxWords, len(strings.Fields(f)))
		}
		slices.Sort(d.variants[name])
	}

	slices.SortStableFunc(d.surfaces, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return d, nil
}

// Lookup returns the canonical name for an already lower-cased surface form.
func (d *Dictionary) Lookup(surface string) (string, bool) {
	name, ok := d.canonical[surface]
	return name, ok
}

// Canonical returns the canonical name for s in any letter case.
func (d *Dictionary) Canonical(s string) (string, bool) {
	return d.Lookup(rucase.Lower(strings.TrimSpace(s)))
}

// Names returns the canonical names in declaration order.
func (d *Dictionary) Names() []string {
	return slices.Clone(d.names)
}

// Variants returns the sorted surface forms of a canonical name.
func (d *Dictionary) Variants(name string) []string {
	return slices.Clone(d.variants[name])
}

// Surfaces returns every surface form, longest first.
func (d *Dictionary) Surfaces() []string {
	return slices.Clone(d.surfaces)
}

// MaxWords returns the number of words in the longest surface form.
func (d *Dictionary) MaxWords() int {
	return d.maxWords
}

// Len returns the number of surface forms.
func (d *Dictionary) Len() int {
	return len(d.canonical)
}

// Entries returns the dictionary as declared entries, in declaration order.
// Every variant is listed, including the implicit lower-cased name.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, 0, len(d.names))
	for _, name := range d.names {
		out = append(out, Entry{Name: name, Variants: slices.Clone(d.variants[name])})
	}
	return out
}
