package generation

import "context"

// Provider is the external AI collaborator, consumed as one opaque
// request/response operation. Implementations may return non-JSON or
// truncated text; callers must validate, never trust.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
