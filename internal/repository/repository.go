// Package repository holds one in-memory list per backend resource and the
// load/create operations that keep it current.
//
// Lists only ever change by full replacement (LoadAll) or prepend (Create).
// A create never triggers a reload, so the order is always
// [creates since last load, newest first] + [records from the last load].
package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("repository")

// Repository owns the list of one resource. It performs no validation: the
// payloads it receives are already validated by the form layer.
type Repository[T domain.Entity] struct {
	mu    sync.Mutex
	items []T
	// epoch is bumped by Clear; calls that started in an older epoch drop
	// their result.
	epoch uint64

	resource domain.Resource
	api      port.Requester
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// New creates an empty repository for resource.
func New[T domain.Entity](resource domain.Resource, api port.Requester, metrics *observability.Metrics, logger *zap.Logger) *Repository[T] {
	return &Repository[T]{
		resource: resource,
		api:      api,
		metrics:  metrics,
		logger:   logger.With(zap.String("resource", string(resource))),
	}
}

// Resource returns the resource this repository is bound to.
func (r *Repository[T]) Resource() domain.Resource { return r.resource }

// LoadAll fetches the full list and replaces the held one. On failure the
// held list is left untouched and the client's error is returned.
func (r *Repository[T]) LoadAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Repository.LoadAll")
	defer span.End()
	span.SetAttributes(attribute.String("resource", string(r.resource)))

	epoch := r.currentEpoch()

	env, err := r.api.Do(ctx, client.Request{Path: r.resource.Path()})
	if err != nil {
		r.logger.Warn("load failed", zap.Error(err))
		return err
	}

	var list []T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &list); err != nil {
			r.logger.Warn("load returned an unexpected shape", zap.Error(err))
			return domain.NewTransport(err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		r.logger.Debug("discarding load that finished after a clear")
		return nil
	}
	r.items = list
	r.metrics.SetListSize(string(r.resource), len(r.items))
	span.SetAttributes(attribute.Int("items", len(list)))
	return nil
}

// Create submits payload and prepends the record the backend returned.
// The returned record carries the authoritative ID for dependent creates.
func (r *Repository[T]) Create(ctx context.Context, payload T) (T, error) {
	ctx, span := tracer.Start(ctx, "Repository.Create")
	defer span.End()
	span.SetAttributes(attribute.String("resource", string(r.resource)))

	epoch := r.currentEpoch()

	var zero T
	env, err := r.api.Do(ctx, client.Request{
		Method: "POST",
		Path:   r.resource.Path(),
		Body:   payload,
	})
	if err != nil {
		r.logger.Warn("create failed", zap.Error(err))
		return zero, err
	}

	created, err := client.DecodeData[T](env)
	if err != nil {
		r.logger.Warn("create returned no record", zap.Error(err))
		return zero, err
	}
	span.SetAttributes(attribute.Int64("id", created.EntityID()))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		// Still return the record: the backend created it.
		r.logger.Debug("not prepending create that finished after a clear")
		return created, nil
	}
	r.items = append([]T{created}, r.items...)
	r.metrics.SetListSize(string(r.resource), len(r.items))
	return created, nil
}

// Items returns a copy of the held list in its stored order.
func (r *Repository[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of held records.
func (r *Repository[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Recent returns the last n records of the list in reverse order. The list
// is never re-sorted by a business key. n <= 0 yields an empty slice.
func (r *Repository[T]) Recent(n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return []T{}
	}
	if n > len(r.items) {
		n = len(r.items)
	}
	out := make([]T, 0, n)
	for i := len(r.items) - 1; i >= len(r.items)-n; i-- {
		out = append(out, r.items[i])
	}
	return out
}

// Find returns the record with id, if held.
func (r *Repository[T]) Find(id int64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Clear drops the held list. Loads and creates already in flight will not
// write into the cleared list.
func (r *Repository[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.epoch++
	r.metrics.SetListSize(string(r.resource), 0)
}

func (r *Repository[T]) currentEpoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}
