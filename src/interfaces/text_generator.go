package interfaces

import "context"

// -----------------------------------------------------------------------------
// ITextGenerator is the opaque text-generation collaborator. Callers treat
// failures as non-fatal and substitute a degraded canned response.
// -----------------------------------------------------------------------------

// ChatMessage is one prompt message in the generator's conversation format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ITextGenerator interface {
	// Generate produces text for the given conversation.
	Generate(ctx context.Context, messages []ChatMessage) (string, error)
}
