package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtractionFailed tags any failure to turn an uploaded file into plain
// text. Callers are expected to degrade (keep an inline note) rather than
// abort the surrounding operation.
var ErrExtractionFailed = errors.New("extraction failed")

// StorageCap bounds extracted text before it is persisted. The much smaller
// prompt-time cap lives in the prompt package and is applied separately.
const StorageCap = 100000

// Extract parses data as a PDF and returns normalized plain text and the page
// count. The returned text is already capped at StorageCap.
func Extract(data []byte) (text string, pages int, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: empty file", ErrExtractionFailed)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	pages = reader.NumPage()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return CapForStorage(NormalizeWhitespace(string(raw))), pages, nil
}

// NormalizeWhitespace collapses runs of spaces and tabs inside each line to a
// single space, collapses two or more consecutive blank lines to exactly one,
// and trims leading and trailing whitespace.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// CapForStorage truncates s at StorageCap characters and appends a marker
// stating the original length. Text at or under the cap is returned unchanged.
func CapForStorage(s string) string {
	runes := []rune(s)
	if len(runes) <= StorageCap {
		return s
	}
	return string(runes[:StorageCap]) +
		fmt.Sprintf("\n\n[truncated: original text was %d characters, storage limit is %d]", len(runes), StorageCap)
}
