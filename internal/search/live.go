package search

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

// liveSessionTimeout bounds a single live-ranking websocket session.
const liveSessionTimeout = 10 * time.Minute

// handleLive upgrades to a websocket and re-ranks each frame the client
// sends. Frames use the same shape as POST /rank. The client owns debouncing
// and discarding of stale replies; the server just answers every frame in
// order.
func (m *Module) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		m.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	ctx, cancel := context.WithTimeout(r.Context(), liveSessionTimeout)
	defer cancel()

	for {
		var req rankRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			// Normal closure or timeout; nothing to report.
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		if !m.limiter.Allow() {
			// Skip the frame instead of dropping the session; the next
			// keystroke will be fresher anyway.
			continue
		}

		rankCalls.Inc()
		rankCandidates.Observe(float64(len(req.Candidates)))

		resp := rankResponse{
			Query:   req.Query,
			Results: m.ranker.RankScored(req.Query, req.Candidates),
		}
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			m.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}
