package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/lixenwraith/arenaview/snapshot"
)

// envelope is the wire framing for the snapshot stream
type envelope struct {
	Type     string                   `json:"type"`
	Snapshot *snapshot.CombatSnapshot `json:"snapshot,omitempty"`
}

const (
	msgSnapshot  = "snapshot"
	msgCompleted = "completed"
)

// WebsocketSource streams snapshots from a match server over a websocket.
// It reads until the server closes or the context is cancelled; it does
// not reconnect.
type WebsocketSource struct {
	callbacks

	url      string
	clientID string
	log      *slog.Logger
}

// NewWebsocketSource creates a source for the given websocket URL.
// A nil logger defaults to slog.Default.
func NewWebsocketSource(url string, logger *slog.Logger) *WebsocketSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebsocketSource{
		url:      url,
		clientID: uuid.NewString(),
		log:      logger,
	}
}

// Run dials the server and pumps messages into the registered callbacks
// until the stream ends. A server-reported completion or a normal close
// returns nil; both emit the completed notification.
func (s *WebsocketSource) Run(ctx context.Context) error {
	header := http.Header{}
	header.Set("X-Client-ID", s.clientID)

	conn, _, err := websocket.Dial(ctx, s.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	s.log.Info("snapshot stream connected", "url", s.url, "client", s.clientID)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || ctx.Err() != nil {
				s.emitCompleted()
				return nil
			}
			return fmt.Errorf("read snapshot stream: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// A malformed frame is a data hiccup, not a reason to drop
			// the stream
			s.log.Warn("discarding malformed frame", "error", err)
			continue
		}

		switch env.Type {
		case msgSnapshot:
			if env.Snapshot != nil {
				s.emitSnapshot(env.Snapshot)
			}
		case msgCompleted:
			s.emitCompleted()
			return nil
		default:
			s.log.Debug("ignoring unknown frame type", "type", env.Type)
		}
	}
}
