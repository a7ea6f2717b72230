package metadata

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	pkgerrors "github.com/JulianiusM/InventoryManagement-sub000/pkg/errors"
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

// providerState tracks one provider's health and pacing for the lifetime of
// the process.
type providerState struct {
	limiter           *rate.Limiter
	consecutiveErrors int
	rateLimited       bool
}

// SyncBudget counts provider calls within one sync job. PerSyncCap is
// enforced against the budget carried on the job's context, so concurrent
// jobs never eat into each other's allowance.
type SyncBudget struct {
	mu    sync.Mutex
	calls map[string]int
}

type budgetKey struct{}

// WithSyncBudget returns a context carrying a fresh per-job call budget.
// Every job installs one before touching providers; calls made without a
// budget are not capped.
func WithSyncBudget(ctx context.Context) context.Context {
	return context.WithValue(ctx, budgetKey{}, &SyncBudget{calls: make(map[string]int)})
}

func budgetFrom(ctx context.Context) *SyncBudget {
	b, _ := ctx.Value(budgetKey{}).(*SyncBudget)
	return b
}

// RuntimeState paces calls to each provider and trips a per-provider circuit
// after repeated failures. A provider marked rate-limited stays out of
// rotation until restart.
type RuntimeState struct {
	mu     sync.Mutex
	states map[string]*providerState
	logger interfaces.Logger
}

// NewRuntimeState creates an empty runtime state.
func NewRuntimeState(logger interfaces.Logger) *RuntimeState {
	return &RuntimeState{
		states: make(map[string]*providerState),
		logger: logger,
	}
}

func (s *RuntimeState) stateFor(m Manifest) *providerState {
	st, ok := s.states[m.ID]
	if !ok {
		limit := rate.Inf
		if m.RateLimit.MinDelay > 0 {
			limit = rate.Every(m.RateLimit.MinDelay)
		}
		st = &providerState{limiter: rate.NewLimiter(limit, 1)}
		s.states[m.ID] = st
	}
	return st
}

// Wait blocks until the provider may be called again. It returns an error if
// the provider is out of rotation, the job's call budget is spent, or the
// context expires first.
func (s *RuntimeState) Wait(ctx context.Context, m Manifest) error {
	s.mu.Lock()
	st := s.stateFor(m)
	if st.rateLimited {
		s.mu.Unlock()
		return pkgerrors.Unavailable("provider " + m.ID + " is rate limited")
	}
	limiter := st.limiter
	s.mu.Unlock()

	if m.RateLimit.PerSyncCap > 0 {
		if b := budgetFrom(ctx); b != nil {
			b.mu.Lock()
			if b.calls[m.ID] >= m.RateLimit.PerSyncCap {
				b.mu.Unlock()
				return pkgerrors.Unavailable("provider " + m.ID + " reached its per-sync call cap")
			}
			b.calls[m.ID]++
			b.mu.Unlock()
		}
	}

	return limiter.Wait(ctx)
}

// RecordSuccess resets the provider's failure streak.
func (s *RuntimeState) RecordSuccess(m Manifest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateFor(m).consecutiveErrors = 0
}

// RecordFailure counts a failed call. A rate-limit response, or exceeding
// the provider's consecutive-error budget, takes the provider out of
// rotation for the rest of the process lifetime.
func (s *RuntimeState) RecordFailure(m Manifest, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateFor(m)
	st.consecutiveErrors++

	if pkgerrors.IsRateLimited(err) {
		st.rateLimited = true
		s.logger.Warn("Metadata provider hit a rate limit, removing from rotation",
			interfaces.String("provider_id", m.ID),
			interfaces.Error(err))
		return
	}

	if m.RateLimit.MaxConsecutiveErrors > 0 && st.consecutiveErrors >= m.RateLimit.MaxConsecutiveErrors {
		st.rateLimited = true
		s.logger.Warn("Metadata provider exceeded failure budget, removing from rotation",
			interfaces.String("provider_id", m.ID),
			interfaces.Int("consecutive_errors", st.consecutiveErrors))
	}
}

// Available reports whether the provider is still in rotation.
func (s *RuntimeState) Available(m Manifest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.stateFor(m).rateLimited
}
