package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		width     int
		alignment Alignment
		middle    []string
	}{
		{name: "left", text: "abc", width: 9, alignment: AlignLeft, middle: []string{"│abc    │"}},
		{name: "right", text: "abc", width: 9, alignment: AlignRight, middle: []string{"│    abc│"}},
		{name: "center", text: "abc", width: 9, alignment: AlignCenter, middle: []string{"│  abc  │"}},
		{name: "truncated", text: "abcdefghij", width: 7, alignment: AlignLeft, middle: []string{"│abcd…│"}},
		{name: "multi line", text: "a\r\nbb", width: 6, alignment: AlignLeft, middle: []string{"│a   │", "│bb  │"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Banner(tt.text, tt.width, tt.alignment)
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

			require.Len(t, lines, len(tt.middle)+2)
			assert.Equal(t, tt.middle, lines[1:len(lines)-1])

			for _, line := range lines {
				assert.Equal(t, tt.width, utf8.RuneCountInString(line))
			}
		})
	}

	t.Run("degenerate input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, Banner("", 10, AlignLeft))
		assert.Empty(t, Banner("x", 0, AlignLeft))
		assert.Empty(t, Banner("x", 10, Alignment(42)))
	})
}

func TestDivider(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "┠───┨\n", Divider(5))
	assert.Empty(t, Divider(1))
}
