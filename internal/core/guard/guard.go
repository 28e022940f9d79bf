// Package guard implements the client-side gate that decides whether a
// protected back-office view may render, based on the advisory session
// indicator the client holds after login.
package guard

import (
	"context"
	"time"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// DefaultMinimumLatency is the floor on total verification time, measured
// from entry to decision. The local check is near-instant; padding every
// entry to the same perceived latency stops an observer from inferring
// whether the check hit the cache.
const DefaultMinimumLatency = 4 * time.Second

// Outcome is the terminal state of one verification.
type Outcome int

const (
	// OutcomeUndecided is the zero value, reported only alongside an error.
	OutcomeUndecided Outcome = iota
	// OutcomeAuthorized lets the protected view render.
	OutcomeAuthorized
	// OutcomeRedirectLogin routes an unauthenticated caller to the login
	// surface.
	OutcomeRedirectLogin
	// OutcomeRedirectForbidden routes an authenticated caller whose role is
	// not in the required set to the forbidden surface. Distinct from
	// OutcomeRedirectLogin; the two must never collapse.
	OutcomeRedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeRedirectForbidden:
		return "redirect_forbidden"
	default:
		return "undecided"
	}
}

// Guard evaluates a session indicator against a view's required-role set.
// One Guard serves one protected view; it holds no cross-view state.
type Guard struct {
	minLatency time.Duration

	// onDecision, when set, observes every delivered decision with the
	// elapsed wall time. Wired to metrics by the caller.
	onDecision func(Outcome, time.Duration)
}

// Option configures a Guard.
type Option func(*Guard)

// WithMinimumLatency overrides the latency floor. Intended for tests and for
// surfaces that tune the perceived-latency budget.
func WithMinimumLatency(d time.Duration) Option {
	return func(g *Guard) { g.minLatency = d }
}

// WithDecisionObserver registers a callback invoked for every decision that
// is actually delivered (not for cancelled evaluations).
func WithDecisionObserver(fn func(Outcome, time.Duration)) Option {
	return func(g *Guard) { g.onDecision = fn }
}

func New(opts ...Option) *Guard {
	g := &Guard{minLatency: DefaultMinimumLatency}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide is the pure authorization predicate: authenticated, and either no
// roles are required or the cached role is one of them.
func Decide(indicator domain.SessionIndicator, requiredRoles []domain.Role) Outcome {
	if !indicator.Authenticated {
		return OutcomeRedirectLogin
	}
	if len(requiredRoles) == 0 {
		return OutcomeAuthorized
	}
	role := indicator.Role()
	for _, r := range requiredRoles {
		if role == r {
			return OutcomeAuthorized
		}
	}
	return OutcomeRedirectForbidden
}

// Evaluate runs the verification state machine: Verifying, then exactly one
// of the terminal outcomes. The decision is withheld until the latency floor
// has elapsed, however fast the local check resolved.
//
// Cancelling ctx tears the evaluation down: both the pending check and the
// floor timer are abandoned together and no outcome is delivered afterwards.
func (g *Guard) Evaluate(ctx context.Context, indicator domain.SessionIndicator, requiredRoles []domain.Role) (Outcome, error) {
	start := time.Now()

	floor := time.NewTimer(g.minLatency)
	defer floor.Stop()

	check := make(chan Outcome, 1)
	go func() { check <- Decide(indicator, requiredRoles) }()

	var outcome Outcome
	select {
	case <-ctx.Done():
		return OutcomeUndecided, ctx.Err()
	case outcome = <-check:
	}

	// Remaining wait is max(0, floor-elapsed); the timer was armed at entry
	// so it expires exactly when the floor is reached.
	select {
	case <-ctx.Done():
		return OutcomeUndecided, ctx.Err()
	case <-floor.C:
	}

	if g.onDecision != nil {
		g.onDecision(outcome, time.Since(start))
	}
	return outcome, nil
}
