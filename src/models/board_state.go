package models

// -----------------------------------------------------------------------------
// Board State Structure
// -----------------------------------------------------------------------------

// MBoardState is what a rendering layer needs: latest price per symbol and
// whether a stream is running.
type MBoardState struct {
	Prices    map[string]MPriceUpdate `json:"prices"`
	IsRunning bool                    `json:"is_running"`
	Symbols   []string                `json:"symbols"`
	UpdatedAt int64                   `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// Hub messages
// -----------------------------------------------------------------------------

type MBoardMessage struct {
	Type      string        `json:"type"` // "INITIAL", "UPDATE", "STATUS" or "ERROR"
	State     *MBoardState  `json:"state,omitempty"`
	Update    *MPriceUpdate `json:"update,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// ControlCommand for client messages
// -----------------------------------------------------------------------------

type MControlCommand struct {
	Command string   `json:"command"` // "start" or "stop"
	Symbols []string `json:"symbols"`
}
