package domain

import "errors"

var (
	ErrInvalidCount      = errors.New("count must be between 0 and deck size")
	ErrSlotOccupied      = errors.New("slot already holds a card")
	ErrSlotEmpty         = errors.New("slot holds no card")
	ErrIndexOutOfRange   = errors.New("slot index out of range")
	ErrInvalidNote       = errors.New("note exceeds maximum length")
	ErrInvalidTitle      = errors.New("title exceeds maximum length")
	ErrIncompleteReading = errors.New("reading has empty slots")

	ErrCardNotFound    = errors.New("card not found")
	ErrSpreadNotFound  = errors.New("spread not found")
	ErrEntryNotFound   = errors.New("journal entry not found")
	ErrReadingNotFound = errors.New("reading not found")

	ErrNoInterpreter  = errors.New("no interpreter configured")
	ErrUpstreamLLM    = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON = errors.New("LLM returned invalid JSON after retry")
)
