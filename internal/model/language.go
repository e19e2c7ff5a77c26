// Package model defines the data structures shared across the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "github.com/sakif/code-editor/internal/apperror"

// JavaScript is the only language tag the execution service can evaluate.
// Every other tag in the catalogue is accepted by the editor (syntax highlighting,
// advisory actions) but produces an "unsupported" error event when run.
const JavaScript = "javascript"

// Language describes one entry of the editor's language selector.
//
// The `json:"..."` tags control the wire format the frontend reads:
//
//	{"value":"javascript","label":"JavaScript","executable":true}
type Language struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Executable bool   `json:"executable"`
}

// languages is the fixed catalogue, in the order the selector shows it.
var languages = []Language{
	{Value: JavaScript, Label: "JavaScript", Executable: true},
	{Value: "typescript", Label: "TypeScript"},
	{Value: "python", Label: "Python"},
	{Value: "java", Label: "Java"},
	{Value: "csharp", Label: "C#"},
}

// Languages returns a copy of the catalogue so callers can't mutate it.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LookupLanguage finds a catalogue entry by its tag.
// Returns apperror.ErrNotFound for tags outside the catalogue.
func LookupLanguage(value string) (Language, error) {
	for _, l := range languages {
		if l.Value == value {
			return l, nil
		}
	}
	return Language{}, apperror.NotFound("language", value)
}
