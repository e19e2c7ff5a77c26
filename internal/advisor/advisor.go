// Package advisor produces the canned recommendations behind the editor's
// AI action buttons.
//
// Every generator is a pure function of the source text: a literal substring
// check picks one of a few fixed templates. The Responder interface is the
// seam where a real model-backed implementation would plug in.
package advisor

import (
	"context"
	"strings"
)

// Action is one of the advisory buttons in the editor toolbar.
type Action string

const (
	Suggest  Action = "suggest"
	Improve  Action = "improve"
	Explain  Action = "explain"
	Refactor Action = "refactor"
)

// Actions lists the recognised actions in toolbar order.
var Actions = []Action{Suggest, Improve, Explain, Refactor}

// Valid reports whether a is one of the four recognised actions.
func (a Action) Valid() bool {
	switch a {
	case Suggest, Improve, Explain, Refactor:
		return true
	}
	return false
}

// Title is the heading the response panel shows for a.
func (a Action) Title() string {
	switch a {
	case Suggest:
		return "Suggested Fix"
	case Improve:
		return "Code Improvement"
	case Explain:
		return "Code Explanation"
	case Refactor:
		return "Refactored Code"
	default:
		return "AI Response"
	}
}

// Request is the input of one advisory action.
type Request struct {
	Source   string
	Action   Action
	Language string
}

// Responder turns a request into recommendation text.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// Canned is the offline Responder. It never returns an error.
type Canned struct{}

var _ Responder = Canned{}

// Respond dispatches on the action. Unknown actions get Fallback.
// The language is accepted for interface parity but unused.
func (Canned) Respond(_ context.Context, req Request) (string, error) {
	switch req.Action {
	case Suggest:
		return suggest(req.Source), nil
	case Improve:
		return improve(), nil
	case Explain:
		return explain(req.Source), nil
	case Refactor:
		return refactor(req.Source), nil
	default:
		return Fallback, nil
	}
}

// Fallback answers any action outside the four recognised ones.
const Fallback = "I'm not sure how to help with that specific request. Try running your code or selecting a different action."

func suggest(source string) string {
	if strings.Contains(source, "error") || strings.Contains(source, "Error") {
		return suggestErrorTemplate
	}
	return suggestCleanTemplate
}

func improve() string {
	return improveTemplate
}

func explain(source string) string {
	if strings.Contains(source, "fibonacci") {
		return explainFibonacciTemplate
	}
	return explainGenericTemplate
}

func refactor(source string) string {
	if strings.Contains(source, "fibonacci") {
		return refactorFibonacciTemplate
	}
	return refactorGenericTemplate
}
