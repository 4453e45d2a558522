// Package api exposes the control surface: a REST API for parameters,
// transitions, presets, and sequences, plus a WebSocket stream for frame
// previews and status updates.
package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/lightwaveos/lightwave-go/internal/database/repositories"
	"github.com/lightwaveos/lightwave-go/internal/render"
	"github.com/lightwaveos/lightwave-go/internal/services/preset"
	"github.com/lightwaveos/lightwave-go/internal/services/pubsub"
)

// Version is the server version reported by /health (set at build time).
var Version = "0.1.0"

// Server holds the handler dependencies.
type Server struct {
	scheduler *render.Scheduler
	presets   *preset.Service
	player    *preset.Player
	seqRepo   *repositories.SequenceRepository
	pubsub    *pubsub.PubSub
	upgrader  websocket.Upgrader

	previewGate atomic.Int64 // unix nanos of the last published preview frame
}

// NewServer creates the API server.
func NewServer(scheduler *render.Scheduler, presets *preset.Service, player *preset.Player, seqRepo *repositories.SequenceRepository, ps *pubsub.PubSub) *Server {
	return &Server{
		scheduler: scheduler,
		presets:   presets,
		player:    player,
		seqRepo:   seqRepo,
		pubsub:    ps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router(corsOrigin string, debug bool) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin, "http://localhost:3000", "http://localhost:4000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            debug,
	})
	router.Use(corsMiddleware.Handler)

	router.Get("/health", s.handleHealth)
	router.Get("/ws", s.handleWebSocket)

	router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/params", s.handleSubmitParams)
		r.Post("/transition", s.handleTransition)

		r.Get("/effects", s.handleListEffects)
		r.Get("/palettes", s.handleListPalettes)
		r.Get("/transitions", s.handleListTransitions)
		r.Get("/interfaces", s.handleListInterfaces)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Post("/", s.handleSavePreset)
			r.Get("/{id}", s.handleGetPreset)
			r.Put("/{id}", s.handleUpdatePreset)
			r.Delete("/{id}", s.handleDeletePreset)
			r.Post("/{id}/apply", s.handleApplyPreset)
		})

		r.Route("/sequences", func(r chi.Router) {
			r.Get("/", s.handleListSequences)
			r.Post("/", s.handleCreateSequence)
			r.Get("/status", s.handlePlaybackStatus)
			r.Post("/stop", s.handleStopSequence)
			r.Get("/{id}", s.handleGetSequence)
			r.Delete("/{id}", s.handleDeleteSequence)
			r.Post("/{id}/start", s.handleStartSequence)
		})
	})

	return router
}

// PreviewFrame is the WebSocket payload carrying a downsampled copy of the
// output frame. Pixels is the raw RGB byte stream, base64 in JSON.
type PreviewFrame struct {
	Frame  uint64 `json:"frame"`
	Pixels []byte `json:"pixels"`
}

// AttachPreview registers a frame observer that republishes rendered frames
// on the preview topic, throttled to rateHz so WebSocket clients are not fed
// the full 120fps output.
func (s *Server) AttachPreview(rateHz int) {
	if rateHz <= 0 {
		rateHz = 15
	}
	minGap := int64(time.Second) / int64(rateHz)

	s.scheduler.SetFrameObserver(func(frame render.Buffer, state render.RenderState) {
		now := time.Now().UnixNano()
		last := s.previewGate.Load()
		if now-last < minGap || !s.previewGate.CompareAndSwap(last, now) {
			return
		}

		pixels := make([]byte, len(frame)*3)
		for i, px := range frame {
			pixels[i*3] = px.R
			pixels[i*3+1] = px.G
			pixels[i*3+2] = px.B
		}
		s.pubsub.PublishAll(pubsub.TopicFramePreview, PreviewFrame{
			Frame:  s.scheduler.FrameCount(),
			Pixels: pixels,
		})
	})
}
