//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

import "context"

//counterfeiter:generate -o ../mocks/background_processor.go . BackgroundProcessor

// BackgroundProcessor is a long-running consumer owned by a runtime context.
type BackgroundProcessor interface {
	// Start begins consuming and returns once the consumer is attached.
	Start(ctx context.Context) error
	// Shutdown stops consuming and releases the broker resources.
	Shutdown() error
}
