// Package form holds one controller per entity form. A controller owns the
// draft being edited, the submitting flag and the error slot, and runs the
// shared submit protocol: validate locally, create through the repository,
// then reset or report.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("form")

// ErrBusy is returned when Submit is called while a submission is in flight.
var ErrBusy = errors.New("submission already in progress")

// Creator is the create half of a repository.
type Creator[T any] interface {
	Create(ctx context.Context, payload T) (T, error)
}

// Controller runs the submit protocol for draft type D, validated payload
// type P and created record type R.
type Controller[D, P, R any] struct {
	mu         sync.Mutex
	draft      D
	submitting bool
	errMsg     string

	name      string
	label     string
	defaults  func() D
	normalize func(D) D
	validate  func(D) (P, error)
	create    func(ctx context.Context, payload P) (R, error)

	notifier port.Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Spec wires a controller's entity-specific parts.
type Spec[D, P, R any] struct {
	Name      string // route name, e.g. "supplier"
	Label     string // shown in notices, e.g. "Supplier"
	Defaults  func() D
	Normalize func(D) D
	Validate  func(D) (P, error)
	Create    func(ctx context.Context, payload P) (R, error)
}

// NewController creates a controller with its draft seeded from Defaults.
func NewController[D, P, R any](spec Spec[D, P, R], notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *Controller[D, P, R] {
	c := &Controller[D, P, R]{
		name:      spec.Name,
		label:     spec.Label,
		defaults:  spec.Defaults,
		normalize: spec.Normalize,
		validate:  spec.Validate,
		create:    spec.Create,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger.With(zap.String("form", spec.Name)),
	}
	c.draft = c.defaults()
	return c
}

// Name returns the form's route name.
func (c *Controller[D, P, R]) Name() string { return c.name }

// Draft returns the current draft.
func (c *Controller[D, P, R]) Draft() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Edit applies fn to a copy of the draft and, if fn succeeds, stores the
// copy with the display normalizers re-applied.
func (c *Controller[D, P, R]) Edit(fn func(d *D) error) (D, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.draft
	if err := fn(&next); err != nil {
		return c.draft, err
	}
	c.draft = c.normalize(next)
	return c.draft, nil
}

// Err returns the message in the error slot, empty when none.
func (c *Controller[D, P, R]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Submitting reports whether a submission is in flight.
func (c *Controller[D, P, R]) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Reset restores the default draft and clears the error slot.
func (c *Controller[D, P, R]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.defaults()
	c.errMsg = ""
}

// Submit validates the normalized draft and creates the record. A second
// call while one is in flight returns ErrBusy and does nothing. Validation
// failures never reach the network.
func (c *Controller[D, P, R]) Submit(ctx context.Context) (R, error) {
	var zero R

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		c.logger.Debug("submit ignored: already submitting")
		return zero, ErrBusy
	}
	c.submitting = true
	c.errMsg = ""
	draft := c.normalize(c.draft)
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "Controller.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("form", c.name))

	payload, err := c.validate(draft)
	if err != nil {
		c.fail(err, "invalid")
		return zero, err
	}

	rec, err := c.create(ctx, payload)
	switch domain.KindOf(err) {
	case 0:
		if err != nil {
			c.fail(err, "failed")
			return zero, err
		}
	case domain.KindComposite:
		// first step went through: the draft is spent
		c.mu.Lock()
		c.draft = c.defaults()
		c.submitting = false
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.metrics.IncrSubmission(c.name, "composite")
		c.notifier.Error(err.Error())
		c.logger.Warn("submission partially saved", zap.Error(err))
		return rec, err
	default:
		c.fail(err, "failed")
		return zero, err
	}

	c.mu.Lock()
	c.draft = c.defaults()
	c.submitting = false
	c.mu.Unlock()

	c.metrics.IncrSubmission(c.name, "success")
	c.notifier.Success(c.label + " saved")
	c.logger.Info("submission saved")
	return rec, nil
}

func (c *Controller[D, P, R]) fail(err error, outcome string) {
	msg := domain.MessageOf(err)

	c.mu.Lock()
	c.submitting = false
	c.errMsg = msg
	c.mu.Unlock()

	c.metrics.IncrSubmission(c.name, outcome)
	if outcome == "invalid" {
		c.metrics.IncrRequestError(domain.KindValidation.String())
		c.logger.Debug("submission rejected", zap.String("reason", msg))
	} else {
		c.logger.Warn("submission failed", zap.Error(err))
	}
	c.notifier.Error(msg)
}

// ============================================================
// Type-erased view used by the shell
// ============================================================

// Snapshot is a form's state as shown by the shell.
type Snapshot struct {
	Form       string `json:"form"`
	Draft      any    `json:"draft"`
	Submitting bool   `json:"submitting"`
	Error      string `json:"error,omitempty"`
}

// Handle lets the shell drive any controller without knowing its types.
type Handle interface {
	Name() string
	Apply(raw []byte) error
	Snapshot() Snapshot
	Send(ctx context.Context) (any, error)
	Reset()
}

// Apply decodes raw JSON onto the draft, leaving absent fields unchanged.
func (c *Controller[D, P, R]) Apply(raw []byte) error {
	_, err := c.Edit(func(d *D) error {
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, d); err != nil {
			return domain.NewValidation("", "invalid form data")
		}
		return nil
	})
	return err
}

// Snapshot returns the draft, flag and error slot together.
func (c *Controller[D, P, R]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Form: c.name, Draft: c.draft, Submitting: c.submitting, Error: c.errMsg}
}

// Send is Submit with the record returned as any.
func (c *Controller[D, P, R]) Send(ctx context.Context) (any, error) {
	return c.Submit(ctx)
}
