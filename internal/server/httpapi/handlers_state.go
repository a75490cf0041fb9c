package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StateMessage is one frame of the state feed.
type StateMessage struct {
	Type      string         `json:"type"`
	State     appstate.State `json:"state"`
	Timestamp int64          `json:"timestamp"`
}

func (h *Handler) HandleState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.actions.State().Snapshot())
}

func (h *Handler) HandleClearError(c echo.Context) error {
	h.actions.State().ClearError()
	return c.NoContent(http.StatusNoContent)
}

// HandleStateWebSocket sends the current snapshot and then one frame per
// state change until the client disconnects. Intermediate states may be
// skipped when the client reads slowly.
func (h *Handler) HandleStateWebSocket(c echo.Context) error {
	ctx := c.Request().Context()

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn(ctx, "websocket upgrade failed", "error", err)
		return nil
	}
	defer ws.Close()

	updates, cancel := h.actions.State().Subscribe()
	defer cancel()

	// The read loop only detects disconnects; clients send nothing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(typ string, st appstate.State) error {
		_ = ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return ws.WriteJSON(StateMessage{Type: typ, State: st, Timestamp: time.Now().UnixMilli()})
	}

	// Subscribe queues the current state first; it becomes the snapshot frame.
	first, ok := <-updates
	if !ok {
		return nil
	}
	if err := send("snapshot", first); err != nil {
		return nil
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-ping.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		case st, ok := <-updates:
			if !ok {
				return nil
			}
			if err := send("state", st); err != nil {
				h.logger.Debug(ctx, "websocket write failed", "error", err)
				return nil
			}
		}
	}
}
