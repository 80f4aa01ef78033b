package interfaces

import "price-ticker/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger shares board data with external systems (Server/Push).
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes a single price update to connected listeners
	Broadcast(update models.MPriceUpdate)

	// -----------------------------------------------------------------------------
	// UpdateStatus pushes a running/stopped transition without a price
	UpdateStatus(state models.MBoardState)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
