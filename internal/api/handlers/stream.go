package handlers

import (
	"errors"
	"fleet-route-optimizer/internal/api/dto"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ports"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

const writeWait = 10 * time.Second

// Stream sends the snapshots of a run over a websocket. A stored run is
// replayed from its history; a running one is followed live until it
// completes. The connection closes after a final "complete" message, or
// "aborted" when the run ends without being stored.
func (h *OptimizationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}
	runID := r.PathValue("id")

	var (
		live   <-chan domain.GenerationRecord
		cancel = func() {}
	)
	if h.Subscriber != nil {
		// Subscribe before looking the run up so no record falls in between.
		live, cancel = h.Subscriber.Subscribe(runID)
	}
	defer cancel()

	stored, err := h.Service.Runs.GetRun(r.Context(), runID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		writeServiceError(w, r, "stream run", err)
		return
	}
	if stored == nil && (live == nil || !h.isRunning(runID)) {
		// the run may have finished since the first lookup
		stored, err = h.Service.Runs.GetRun(r.Context(), runID)
		if err != nil {
			writeServiceError(w, r, "stream run", err)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()
	// clear the server's read deadline, which outlives the hijack
	_ = conn.SetReadDeadline(time.Time{})

	// Drain client frames so close and ping control messages are handled.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(msg dto.StreamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	sendFrom := func(history []domain.GenerationRecord, next int) bool {
		for _, rec := range history {
			if rec.Generation < next {
				continue
			}
			data := toGenerationResponse(rec)
			if err := send(dto.StreamMessage{Type: "generation", RunID: runID, Data: &data}); err != nil {
				return false
			}
		}
		return true
	}

	if stored != nil {
		cancel()
		if !sendFrom(stored.History, 0) {
			return
		}
	} else {
		// next is the generation the client expects. Once the broker has
		// dropped one, live records are discarded and the rest is sent from
		// the stored run after completion.
		next, behind := 0, false
		for done := false; !done; {
			select {
			case rec, ok := <-live:
				if !ok {
					done = true
					continue
				}
				if behind || rec.Generation != next {
					behind = true
					continue
				}
				data := toGenerationResponse(rec)
				if err := send(dto.StreamMessage{Type: "generation", RunID: runID, Data: &data}); err != nil {
					return
				}
				next++
			case <-gone:
				return
			case <-r.Context().Done():
				return
			}
		}

		final, err := h.Service.Runs.GetRun(r.Context(), runID)
		if err != nil {
			// cancelled or failed runs are not stored
			_ = send(dto.StreamMessage{Type: "aborted", RunID: runID})
			closeStream(conn, websocket.CloseGoingAway, "aborted")
			return
		}
		if !sendFrom(final.History, next) {
			return
		}
	}

	_ = send(dto.StreamMessage{Type: "complete", RunID: runID})
	closeStream(conn, websocket.CloseNormalClosure, "complete")
}

func closeStream(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeWait),
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
