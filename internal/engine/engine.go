package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultLookupTimeout = 500 * time.Millisecond

// PreferencesProvider supplies a user's filtering preferences. The engine
// consumes it as a capability so the core stays free of any persistence
// dependency; tests inject an in-memory fake.
//
// Implementations return ErrUserNotFound (possibly wrapped) when the user
// does not exist.
type PreferencesProvider interface {
	GetPreferences(ctx context.Context, userID int32) (Preferences, error)
}

// DecideRequest carries the inputs of a structured decision.
//
// Confidence is accepted from callers but does not currently alter matching;
// it is reserved for future weighting and passed through untouched.
type DecideRequest struct {
	UserID     int32
	Text       string
	Confidence *float64
}

// Engine is the decision façade. It orchestrates matching, per-category
// evaluation, and resolution for a user's preferences and one text input.
//
// The compiled ruleset sits behind an atomic pointer, so decisions are
// lock-free and the ruleset can be hot-swapped while requests are in flight.
type Engine struct {
	provider      PreferencesProvider
	logger        *zap.Logger
	lookupTimeout time.Duration
	current       atomic.Pointer[compiled]
}

// compiled pairs a validated ruleset with its compiled matcher.
type compiled struct {
	rules   *Ruleset
	matcher *Matcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithLookupTimeout bounds the preferences lookup. A slow or unavailable
// store must not block playback; on timeout the engine falls back to the
// unknown-user branch.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.lookupTimeout = d
		}
	}
}

// New creates an Engine with the given provider and initial ruleset.
func New(provider PreferencesProvider, rs *Ruleset, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		provider:      provider,
		logger:        logger,
		lookupTimeout: defaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.SetRules(rs); err != nil {
		return nil, err
	}
	return e, nil
}

// SetRules validates and compiles a ruleset and swaps it in atomically.
// On error the previous ruleset stays active.
func (e *Engine) SetRules(rs *Ruleset) error {
	if err := rs.Validate(); err != nil {
		return err
	}
	matcher, err := NewMatcher(rs)
	if err != nil {
		return err
	}
	e.current.Store(&compiled{rules: rs, matcher: matcher})
	return nil
}

// Rules returns the active ruleset.
func (e *Engine) Rules() *Ruleset {
	return e.current.Load().rules
}

// Analyze is the simple-mode entry point: it returns only the playback
// action for the user's preferences and text. Any lookup failure, including
// an unknown user, collapses to ActionNone; unavailability of the backend
// must never block a client.
func (e *Engine) Analyze(ctx context.Context, userID int32, text string) Action {
	prefs, err := e.lookupPreferences(ctx, userID)
	if err != nil {
		return ActionNone
	}
	return e.decide(text, prefs).Action
}

// Decide is the structured-mode entry point. Failure is communicated
// in-band through the Reason field, never through an error: the consumer is
// a media client that must always receive a well-formed action.
func (e *Engine) Decide(ctx context.Context, req DecideRequest) Decision {
	if req.UserID <= 0 {
		return InvalidPayloadDecision()
	}
	prefs, err := e.lookupPreferences(ctx, req.UserID)
	if err != nil {
		return UnknownUserDecision()
	}
	return e.decide(req.Text, prefs)
}

// decide runs the match/evaluate/resolve pipeline. Pure function of the
// text, preferences, and active ruleset.
func (e *Engine) decide(text string, prefs Preferences) Decision {
	c := e.current.Load()
	severities := c.matcher.Match(text)

	outcomes := make(map[Category]CategoryOutcome, len(Categories))
	for _, cat := range Categories {
		outcome, err := c.rules.Evaluate(cat, severities[cat], prefs.Enabled(cat), prefs.SensitivityFor(cat))
		if err != nil {
			// A corrupt preference or ruleset entry is logged loudly but
			// collapses to "does not fire": a missed filter is preferable to
			// blocking playback.
			e.logger.Error("category evaluation failed",
				zap.String("category", string(cat)),
				zap.Error(err))
			outcome = CategoryOutcome{Fires: false, Action: ActionNone}
		}
		outcomes[cat] = outcome
	}

	return Resolve(outcomes, severities, prefs)
}

// lookupPreferences fetches preferences under the configured timeout.
func (e *Engine) lookupPreferences(ctx context.Context, userID int32) (Preferences, error) {
	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	prefs, err := e.provider.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			e.logger.Warn("preferences lookup failed, defaulting to no action",
				zap.Int32("user_id", userID),
				zap.Error(err))
		}
		return Preferences{}, err
	}
	return prefs, nil
}

// InvalidPayloadDecision is the safe decision shape for malformed requests.
func InvalidPayloadDecision() Decision {
	return Decision{Action: ActionNone, DurationSeconds: 0, MatchedCategory: nil, Reason: "Invalid payload"}
}

// UnknownUserDecision is the safe decision shape when the user is unknown or
// the preferences store is unavailable.
func UnknownUserDecision() Decision {
	return Decision{Action: ActionNone, DurationSeconds: 0, MatchedCategory: nil, Reason: "Unknown user"}
}
