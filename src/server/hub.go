package server

import (
	"encoding/json"
	"net/http"
	"time"

	"price-ticker/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// directMessage is a reply for one client, delivered by the hub so it never
// races with the client being dropped
type directMessage struct {
	client *Client
	msg    *models.MBoardMessage
}

// runHub owns the clients map. It exits when the server stops.
func (s *TickerServer) runHub() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				s.dropClient(client)
			}
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Add(1)

			state := s.snapshot()
			client.send <- &models.MBoardMessage{
				Type:      "INITIAL",
				State:     &state,
				Timestamp: time.Now().UnixMilli(),
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				s.dropClient(client)
			}

		case dm := <-s.direct:
			if _, ok := s.clients[dm.client]; ok {
				select {
				case dm.client.send <- dm.msg:
				default:
				}
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, disconnect instead of blocking the hub
					s.Logger.Warning("Dropping slow websocket client")
					s.dropClient(client)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (s *TickerServer) dropClient(client *Client) {
	delete(s.clients, client)
	close(client.send)
	s.connections.Add(-1)
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues one price update for every connected client
func (s *TickerServer) Broadcast(update models.MPriceUpdate) {
	s.stateMutex.Lock()
	s.latestState.Prices[update.Symbol] = update
	s.latestState.UpdatedAt = update.TimestampMs
	s.stateMutex.Unlock()

	s.enqueue(&models.MBoardMessage{
		Type:      "UPDATE",
		Update:    &update,
		Timestamp: update.TimestampMs,
	})
}

// -----------------------------------------------------------------------------

// UpdateStatus queues a running/stopped transition
func (s *TickerServer) UpdateStatus(state models.MBoardState) {
	s.stateMutex.Lock()
	s.latestState.IsRunning = state.IsRunning
	s.latestState.Symbols = append([]string(nil), state.Symbols...)
	s.latestState.UpdatedAt = state.UpdatedAt
	s.stateMutex.Unlock()

	s.enqueue(&models.MBoardMessage{
		Type:      "STATUS",
		State:     &state,
		Timestamp: time.Now().UnixMilli(),
	})
}

// -----------------------------------------------------------------------------

// enqueue never blocks the caller; the engine goroutine sits behind Broadcast
func (s *TickerServer) enqueue(msg *models.MBoardMessage) {
	select {
	case <-s.done:
	case s.broadcast <- msg:
	default:
		s.Logger.Debug("Broadcast queue full, dropping %s message", msg.Type)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *TickerServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan *models.MBoardMessage, 256),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *TickerServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MControlCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	board, _ := s.currentBoard()
	if board == nil {
		s.reply(client, errorMessage("board not available"))
		return
	}

	switch cmd.Command {
	case "start":
		symbols := cmd.Symbols
		if len(symbols) == 0 {
			symbols = s.Config.Symbols
		}
		if err := board.Start(symbols); err != nil {
			s.reply(client, errorMessage(err.Error()))
		}
	case "stop":
		board.Stop()
	default:
		s.reply(client, errorMessage("unknown command "+cmd.Command))
	}
}

// -----------------------------------------------------------------------------

func (s *TickerServer) reply(client *Client, msg *models.MBoardMessage) {
	select {
	case s.direct <- directMessage{client: client, msg: msg}:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

func errorMessage(text string) *models.MBoardMessage {
	return &models.MBoardMessage{
		Type:      "ERROR",
		Error:     text,
		Timestamp: time.Now().UnixMilli(),
	}
}
