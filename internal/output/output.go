// Package output renders command results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/petems/letterswitch/internal/registry"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
	}
}

// Print serializes v to w in format.
func Print(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// LetterGroup is every window answering to one letter.
type LetterGroup struct {
	Letter string `yaml:"letter" json:"letter"`
	// Captured is false when chords on this letter are passed to the OS.
	Captured bool             `yaml:"captured" json:"captured"`
	Windows  []registry.Entry `yaml:"windows" json:"windows"`
}

// GroupByLetter groups entries by letter, letters in ascending order and
// windows in enumeration order.
func GroupByLetter(entries []registry.Entry, captured func(letter rune) bool) []LetterGroup {
	index := map[string]int{}
	groups := []LetterGroup{}

	for _, e := range entries {
		i, ok := index[e.Letter]
		if !ok {
			r, _ := utf8.DecodeRuneInString(e.Letter)
			groups = append(groups, LetterGroup{Letter: e.Letter, Captured: captured(r)})
			i = len(groups) - 1
			index[e.Letter] = i
		}
		groups[i].Windows = append(groups[i].Windows, e)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Letter < groups[b].Letter
	})
	return groups
}
