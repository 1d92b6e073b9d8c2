// Package prompt turns a transcript into the provider-ready prompt text:
// template substitution, a named-template library, and pre-call token
// estimation.
package prompt

import (
	"errors"
	"strings"
)

// Placeholder is the token in a template that is replaced with the
// transcript body.
const Placeholder = "{transcription}"

// ErrNoPlaceholder reports a template without the placeholder token.
var ErrNoPlaceholder = errors.New("template does not contain the {transcription} placeholder")

// Render substitutes every occurrence of Placeholder in template with the
// transcript text. This is a literal substring replace with no escaping: a
// transcript that itself contains the placeholder token is passed through
// verbatim, not replaced again.
func Render(template, transcription string) string {
	return strings.ReplaceAll(template, Placeholder, transcription)
}

// Validate returns ErrNoPlaceholder when template lacks the placeholder
// token. Rendering never validates; this is for configuration editing
// surfaces that want to warn early.
func Validate(template string) error {
	if !strings.Contains(template, Placeholder) {
		return ErrNoPlaceholder
	}

	return nil
}
