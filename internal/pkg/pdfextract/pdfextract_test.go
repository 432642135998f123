package pdfextract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRejectsGarbage(t *testing.T) {
	_, _, err := Extract([]byte("this is not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	_, _, err := Extract(nil)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses space runs", "a   b\t\tc", "a b c"},
		{"keeps single blank line", "a\n\nb", "a\n\nb"},
		{"collapses blank line runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"trims edges", "  \n a \n  ", "a"},
		{"crlf input", "a\r\n\r\n\r\nb", "a\n\nb"},
		{"whitespace only line is blank", "a\n \t \nb", "a\nb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeWhitespace(tc.in))
		})
	}
}

func TestCapForStorage(t *testing.T) {
	under := strings.Repeat("x", StorageCap)
	assert.Equal(t, under, CapForStorage(under))

	over := strings.Repeat("y", StorageCap+500)
	capped := CapForStorage(over)
	assert.True(t, strings.HasPrefix(capped, strings.Repeat("y", StorageCap)))
	assert.Contains(t, capped, "[truncated: original text was 100500 characters")
	assert.NotContains(t, capped[StorageCap:], strings.Repeat("y", 10))
}
