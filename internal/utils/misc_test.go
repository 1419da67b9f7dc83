package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDisplayName(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"two tokens", "Ada Lovelace", "Ada", "Lovelace"},
		{"three tokens", "Mary Jane Watson", "Mary", "Jane Watson"},
		{"single token", "Cher", "Cher", ""},
		{"extra whitespace", "  Ada   Lovelace  ", "Ada", "Lovelace"},
		{"empty", "", "Unknown", "User"},
		{"only whitespace", "   ", "Unknown", "User"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last := SplitDisplayName(tc.input)
			assert.Equal(t, tc.wantFirst, first)
			assert.Equal(t, tc.wantLast, last)
		})
	}
}
