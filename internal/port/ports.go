// Package port defines the interfaces (ports) between the client core and
// its collaborators. Following hexagonal architecture, these ports decouple
// repositories, forms and the shell from concrete transports and stores.
package port

import (
	"context"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
)

// Requester issues one call against the backend and returns its envelope.
// Implemented by *client.Client.
type Requester interface {
	Do(ctx context.Context, req client.Request) (*client.Envelope, error)
}

// KeyValueStore is the durable string store the session persists into.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Notifier is the shell's toast/feedback surface.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// Loader is the part of a repository the orchestrator drives.
type Loader interface {
	LoadAll(ctx context.Context) error
	Clear()
}
