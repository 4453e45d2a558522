package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lightwaveos/lightwave-go/internal/services/pubsub"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 10 * time.Second
	// wsBufferSize bounds the per-subscriber queue; preview frames beyond it
	// are dropped rather than stalling the render loop.
	wsBufferSize = 8
)

// wsEnvelope wraps every outbound WebSocket message with its topic.
type wsEnvelope struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// wsTopics maps the query-parameter names to pubsub topics.
var wsTopics = map[string]pubsub.Topic{
	"preview":    pubsub.TopicFramePreview,
	"status":     pubsub.TopicRenderStatus,
	"transition": pubsub.TopicTransition,
	"presets":    pubsub.TopicPresetUpdated,
	"playback":   pubsub.TopicSequencePlayback,
}

// handleWebSocket upgrades the connection and streams the requested topics.
// The ?topics= parameter is a comma-separated subset of preview, status,
// transition, presets, playback; omitted it defaults to preview and status.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	names := []string{"preview", "status"}
	if q := r.URL.Query().Get("topics"); q != "" {
		names = strings.Split(q, ",")
	}

	var subs []*pubsub.Subscriber
	for _, name := range names {
		topic, ok := wsTopics[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		subs = append(subs, s.pubsub.Subscribe(topic, "", wsBufferSize))
	}
	defer func() {
		for _, sub := range subs {
			s.pubsub.Unsubscribe(sub)
		}
	}()
	if len(subs) == 0 {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "no valid topics"),
			time.Now().Add(wsWriteTimeout))
		return
	}

	// Send the current status immediately so clients render without waiting
	// for the next change.
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(wsEnvelope{Topic: string(pubsub.TopicRenderStatus), Payload: s.statusPayload()}); err != nil {
		return
	}

	// Reader goroutine: its only job is to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Fan the subscriber channels into one stream.
	merged := make(chan wsEnvelope, wsBufferSize)
	for _, sub := range subs {
		go func(sub *pubsub.Subscriber) {
			for msg := range sub.Channel {
				select {
				case merged <- wsEnvelope{Topic: string(sub.Topic), Payload: msg}:
				case <-done:
					return
				}
			}
		}(sub)
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case env := <-merged:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// publishStatus pushes the current status to WebSocket subscribers after a
// mutating API call.
func (s *Server) publishStatus() {
	if s.pubsub == nil {
		return
	}
	s.pubsub.PublishAll(pubsub.TopicRenderStatus, s.statusPayload())
}
