// Package orchestrator decides which repositories are loaded or cleared for
// the current page and authentication state.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("orchestrator")

// AuthState reports whether a token is held. Implemented by *session.Session.
type AuthState interface {
	IsAuthenticated() bool
}

// Plan returns the resources page depends on. Addresses come first and are
// always included: every form may need them for its selects.
func Plan(page domain.Page) []domain.Resource {
	plan := []domain.Resource{domain.ResourceAddresses}
	switch page {
	case domain.PageDashboard, domain.PageItems:
		plan = append(plan,
			domain.ResourceProducts,
			domain.ResourceMaterials,
			domain.ResourceSuppliers,
			domain.ResourceCustomers,
		)
	case domain.PageSuppliers:
		plan = append(plan, domain.ResourceSuppliers)
	case domain.PageCustomers:
		plan = append(plan, domain.ResourceCustomers)
	case domain.PagePhones:
		plan = append(plan, domain.ResourceCustomers, domain.ResourcePhones)
	}
	return plan
}

// Orchestrator re-evaluates loads whenever the page or the authentication
// state changes.
type Orchestrator struct {
	mu   sync.Mutex
	page domain.Page

	auth     AuthState
	repos    *repository.Set
	notifier port.Notifier
	logger   *zap.Logger

	// background evaluations started by a login
	wg sync.WaitGroup
}

// New creates an orchestrator positioned on the dashboard.
func New(auth AuthState, repos *repository.Set, notifier port.Notifier, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		page:     domain.PageDashboard,
		auth:     auth,
		repos:    repos,
		notifier: notifier,
		logger:   logger,
	}
}

// Page returns the current page.
func (o *Orchestrator) Page() domain.Page {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// SetPage switches to page and re-evaluates. While logged out the switch is
// rejected with a notice and the page stays unchanged. Resources the new page
// no longer depends on are cleared.
func (o *Orchestrator) SetPage(ctx context.Context, page domain.Page) error {
	if !o.auth.IsAuthenticated() {
		o.notifier.Warn(domain.ErrNotAuthenticated.Error())
		return domain.ErrNotAuthenticated
	}
	if _, err := domain.ParsePage(string(page)); err != nil {
		return err
	}

	o.mu.Lock()
	prev := o.page
	o.page = page
	o.mu.Unlock()

	if prev != page {
		next := make(map[domain.Resource]bool)
		for _, res := range Plan(page) {
			next[res] = true
		}
		for _, res := range Plan(prev) {
			if !next[res] {
				o.repos.Loader(res).Clear()
			}
		}
		o.logger.Info("page changed", zap.String("from", string(prev)), zap.String("to", string(page)))
	}

	return o.Evaluate(ctx)
}

// Evaluate applies the transition rule for the current state. Logged out, it
// clears every list and issues no loads. Logged in, it loads the page's plan
// concurrently; a failed load neither cancels the others nor escapes as
// anything but a notice and the joined error.
func (o *Orchestrator) Evaluate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Orchestrator.Evaluate")
	defer span.End()

	if !o.auth.IsAuthenticated() {
		o.repos.ClearAll()
		span.SetAttributes(attribute.Bool("authenticated", false))
		return nil
	}

	page := o.Page()
	plan := Plan(page)
	span.SetAttributes(
		attribute.String("page", string(page)),
		attribute.Int("loads", len(plan)),
	)

	var (
		mu   sync.Mutex
		errs []error
	)

	// plain Group: one failure must not cancel sibling loads
	var g errgroup.Group
	for _, res := range plan {
		loader := o.repos.Loader(res)
		g.Go(func() error {
			if err := loader.LoadAll(ctx); err != nil {
				o.logger.Warn("load failed",
					zap.String("resource", string(res)),
					zap.Error(err),
				)
				o.notifier.Error(domain.MessageOf(err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("load %s: %w", res, err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

// OnAuthChange is the session listener. A logout clears every list before
// returning; a login starts loading the current page in the background so
// the dashboard fills without explicit navigation.
func (o *Orchestrator) OnAuthChange(authenticated bool) {
	if !authenticated {
		o.repos.ClearAll()
		o.logger.Info("logged out: repositories cleared")
		return
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.Evaluate(context.Background()); err != nil {
			o.logger.Warn("initial load after login incomplete", zap.Error(err))
		}
	}()
}

// Wait blocks until background evaluations started by logins finish.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
