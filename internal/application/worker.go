package application

import "context"

// Worker represents a background loop owned by the API process.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
