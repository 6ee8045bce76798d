package rucase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLower(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"cyrillic", "Троицкий", "троицкий"},
		{"all caps", "БКЗ", "бкз"},
		{"latin passthrough", "Hall", "hall"},
		{"decomposed short i", "Троицки" + "и\u0306", "троицкий"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Lower(tt.in))
		})
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower word", "попова", "Попова"},
		{"upper word", "ПОПОВА", "Попова"},
		{"two words", "дк горького", "Дк горького"},
		{"digits first", "25 попова", "25 попова"},
		{"single rune", "ё", "Ё"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestIndexWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		s      string
		phrase string
		want   int
	}{
		{"at start", "завтра в 19:00", "завтра", 0},
		{"inside longer word", "послезавтра", "завтра", -1},
		{"second occurrence on boundary", "послезавтра и завтра", "завтра", len("послезавтра и ")},
		{"multi word phrase", "танцуем в субботу.", "в субботу", len("танцуем ")},
		{"prefix of longer word", "максимально", "максим", -1},
		{"missing", "вальс", "сюита", -1},
		{"empty phrase", "вальс", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IndexWord(tt.s, tt.phrase))
		})
	}
}
