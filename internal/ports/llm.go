package ports

import "context"

// InterpretInput holds everything the LLM needs to interpret a
// completed reading.
type InterpretInput struct {
	Kind     string
	Spread   string
	Date     string
	Question string
	Lang     string
	Cards    []CardInput
}

// CardInput is a simplified card representation for the LLM prompt.
type CardInput struct {
	Name        string
	Position    string
	Index       int
	Orientation string
	Keywords    []string
	Meaning     string
	Note        string
}

// InterpretOutput is the structured interpretation returned by the LLM.
type InterpretOutput struct {
	Text       string `json:"text"`
	Style      string `json:"style"`
	Disclaimer string `json:"disclaimer"`
	Model      string `json:"-"`
}

// Interpreter generates a tarot interpretation via an LLM.
type Interpreter interface {
	Interpret(ctx context.Context, in InterpretInput) (InterpretOutput, error)
}
