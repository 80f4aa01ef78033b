package interfaces

import "price-ticker/src/models"

// -----------------------------------------------------------------------------
// IPriceListener receives updates from the engine loop goroutine, never from
// the caller's goroutine.
// -----------------------------------------------------------------------------

type IPriceListener interface {
	OnPrice(update models.MPriceUpdate)
}

// -----------------------------------------------------------------------------

// PriceListenerFunc adapts a plain function to IPriceListener
type PriceListenerFunc func(update models.MPriceUpdate)

func (f PriceListenerFunc) OnPrice(update models.MPriceUpdate) {
	f(update)
}
