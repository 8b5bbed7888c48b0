package papertrade

import "errors"

// The engine distinguishes two families of failures.
//
// Pricing failures (ErrInvalidInput) are caught at the Position boundary and
// degrade to a stale valuation: one bad quote must never prevent the rest of
// the portfolio from being priced.
//
// State and ledger invariant violations are always surfaced to the caller;
// they indicate a caller-side logic error and are never silently swallowed.
var (
	// ErrInvalidInput reports malformed pricing inputs (spot, strike or
	// volatility not strictly positive).
	ErrInvalidInput = errors.New("invalid pricing input")

	// ErrInvalidState reports an operation on a position in the wrong
	// lifecycle state, such as closing an already closed position.
	ErrInvalidState = errors.New("invalid position state")

	// ErrAlreadyInitialized reports a second call to a strategy's one-time
	// position initialization.
	ErrAlreadyInitialized = errors.New("strategy already initialized")

	// ErrInsufficientFunds reports an opening buy that would drive a
	// strategy's cash sleeve negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateStrategy reports a second registration under a name the
	// accountant already knows.
	ErrDuplicateStrategy = errors.New("duplicate strategy")

	// ErrNotYetValued guards reading derived portfolio metrics before the
	// first revaluation.
	ErrNotYetValued = errors.New("portfolio not yet valued")
)
