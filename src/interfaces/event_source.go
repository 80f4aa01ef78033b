package interfaces

import "price-ticker/src/models"

// -----------------------------------------------------------------------------
// IEventSource produces the next price for every requested symbol.
// -----------------------------------------------------------------------------

type IEventSource interface {

	// Next is called once per tick. It never fails; unknown symbols are
	// initialised lazily.
	Next(symbols []string) []models.MPriceUpdate
}
