// Package data embeds the default knowledge tables.
package data

import _ "embed"

// Lexicon is the default YAML knowledge table file: dance names, venues,
// and the month, weekday, relative-day and day-part vocabularies.
//
//go:embed lexicon.yaml
var Lexicon []byte
