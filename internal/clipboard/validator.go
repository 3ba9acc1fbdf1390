// Package clipboard reads a hand viewer URL from the system clipboard.
package clipboard

import (
	"errors"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

// Hand viewer links embed a whole deal, so they run longer than typical
// URLs; anything past this is not a link someone copied.
const maxURLLength = 16 * 1024

var (
	// ErrClipboardRead indicates an error reading from the clipboard
	ErrClipboardRead = errors.New("failed to read from clipboard")
	// ErrInvalidURL indicates the clipboard content is not a valid URL
	ErrInvalidURL = errors.New("clipboard does not contain a valid URL")
)

// readAll is swapped in tests; there is no clipboard on CI machines.
var readAll = clipboard.ReadAll

type Validator struct {
	allowedSchemes map[string]bool
}

func NewValidator() *Validator {
	return &Validator{
		allowedSchemes: map[string]bool{"http": true, "https": true},
	}
}

// ExtractURL validates and extracts a URL from the given text.
// It returns the trimmed input unchanged so the query is not re-encoded,
// or an empty string if the text is not an HTTP/HTTPS URL.
func (v *Validator) ExtractURL(text string) string {
	text = strings.TrimSpace(text)

	if text == "" || len(text) > maxURLLength || strings.ContainsAny(text, "\n\r") {
		return ""
	}

	parsed, err := url.Parse(text)
	if err != nil {
		return ""
	}

	if !v.allowedSchemes[strings.ToLower(parsed.Scheme)] || strings.TrimSpace(parsed.Host) == "" {
		return ""
	}

	return text
}

// ReadURL reads the clipboard and returns a valid URL if found
func ReadURL() (string, error) {
	text, err := readAll()
	if err != nil {
		return "", ErrClipboardRead
	}

	u := NewValidator().ExtractURL(text)
	if u == "" {
		return "", ErrInvalidURL
	}
	return u, nil
}
