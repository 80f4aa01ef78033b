package interfaces

import "price-ticker/src/models"

// -----------------------------------------------------------------------------
// ITickerEngine is the opaque handle a binding layer drives: start, cancel and
// the pull-based drain.
// -----------------------------------------------------------------------------

type ITickerEngine interface {

	// Start begins a run unless one is already active. It reports whether a
	// new run was started; a duplicate start is a no-op.
	Start(symbols []string, listener IPriceListener) bool

	// -----------------------------------------------------------------------------

	// Cancel signals the active run to stop. Idempotent and non-blocking.
	Cancel()

	// -----------------------------------------------------------------------------

	// IsRunning reports whether an un-cancelled run exists
	IsRunning() bool

	// -----------------------------------------------------------------------------

	// DrainUpdates removes and returns up to max queued updates, oldest first
	DrainUpdates(max int) []models.MPriceUpdate

	// -----------------------------------------------------------------------------

	// Stats reports run state and queue usage
	Stats() models.MEngineStats
}
