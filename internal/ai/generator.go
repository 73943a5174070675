// Package ai wraps the generative AI collaborator behind small interfaces so
// domain services never depend on a concrete vendor SDK.
package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when the AI collaborator was never configured
// (no API key). Callers render a fixed "feature disabled" message and must
// not retry.
var ErrUnavailable = errors.New("ai: service not configured")

// ErrMalformedResponse is returned when a structured call produced a payload
// that does not parse against the requested shape.
var ErrMalformedResponse = errors.New("ai: malformed structured response")

// Turn is one exchange in a conversation transcript.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Request carries everything one generation call needs.
type Request struct {
	// Persona is the system instruction fixing the assistant's voice.
	Persona string
	// History holds prior turns, oldest first.
	History []Turn
	// Prompt is the new user message.
	Prompt string
}

// Generator produces free text from a prompt and prior turns.
type Generator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}

// StructuredGenerator produces a JSON document matching the given schema and
// unmarshals it into out. Implementations must fail with ErrMalformedResponse
// if the payload does not parse against the shape.
type StructuredGenerator interface {
	GenerateJSON(ctx context.Context, req Request, schema *genai.Schema, out any) error
}
