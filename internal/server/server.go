// Package server exposes the agents over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/board"
	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/engine"
	mcerrors "github.com/hailam/microchess/internal/errors"
	"github.com/hailam/microchess/internal/storage"
)

// MoveRequest asks an agent for a move.
type MoveRequest struct {
	FEN   string `json:"fen"`
	Agent string `json:"agent"`           // strategy kind, defaults to the configured agent
	Depth int    `json:"depth,omitempty"` // overrides the preset depth, at most config.MaxDepth
}

// MoveResponse carries the chosen move.
type MoveResponse struct {
	Move      string `json:"move"`
	Agent     string `json:"agent"`
	Score     *int   `json:"score,omitempty"` // absent for agents that do not search
	Nodes     uint64 `json:"nodes"`
	Elapsed   string `json:"elapsed"`
	RequestID string `json:"request_id"`
}

// Handler serves the move and game endpoints.
type Handler struct {
	cfg   config.Config
	log   *zap.SugaredLogger
	store *storage.Store // may be nil
}

// NewHandler creates a handler. store may be nil, in which case the game
// endpoints answer 503.
func NewHandler(cfg config.Config, log *zap.SugaredLogger, store *storage.Store) *Handler {
	return &Handler{cfg: cfg, log: log, store: store}
}

// Router returns the HTTP routes.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if h.cfg.Server.LocalCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:         int((12 * time.Hour).Seconds()),
		}))
	}

	r.Get("/healthz", h.HandleHealth)
	r.Post("/move", h.HandleMove)
	r.Get("/games", h.HandleListGames)
	r.Get("/games/{id}", h.HandleGetGame)
	return r
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.log.With("request_id", requestID)

	var req MoveRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		log.Errorw("JSON decode error", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	pos, err := board.ParseFEN(req.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agentCfg := h.cfg.Agent
	if req.Agent != "" {
		agentCfg.Kind = req.Agent
	}
	if req.Depth > 0 {
		agentCfg.Depth = req.Depth
	}
	agent, err := engine.NewAgentFromConfig(agentCfg, log.Desugar())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, mcerrors.ErrUnknownAgent) || errors.Is(err, mcerrors.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	if res, over := pos.Result(); over {
		writeError(w, http.StatusConflict, "game is over: "+res.String())
		return
	}

	ctx := r.Context()
	if h.cfg.Server.MoveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Server.MoveTimeout)
		defer cancel()
	}

	type chosen struct {
		move board.Move
		ok   bool
	}
	start := time.Now()
	done := make(chan chosen, 1)
	go func() {
		m, ok := agent.Move(pos)
		done <- chosen{m, ok}
	}()

	var c chosen
	select {
	case c = <-done:
	case <-ctx.Done():
		log.Warnw("move timed out", "fen", req.FEN, "agent", agent.Name())
		writeError(w, http.StatusGatewayTimeout, "move timed out")
		return
	}
	if !c.ok {
		writeError(w, http.StatusConflict, mcerrors.ErrNoLegalMoves.Error())
		return
	}

	resp := MoveResponse{
		Move:      c.move.String(),
		Agent:     agent.Name(),
		Elapsed:   time.Since(start).String(),
		RequestID: requestID,
	}
	if eng, ok := agent.(*engine.Engine); ok {
		info := eng.LastInfo()
		score := info.Score
		resp.Score = &score
		resp.Nodes = info.Stats.Nodes
	}

	log.Infow("move served", "fen", req.FEN, "agent", resp.Agent, "move", resp.Move, "nodes", resp.Nodes)
	writeResponse(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage disabled")
		return
	}

	id := chi.URLParam(r, "id")
	g, err := h.store.LoadGame(id)
	if errors.Is(err, mcerrors.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Errorw("load game", "id", id, "error", err)
		writeInternalError(w)
		return
	}
	writeResponse(w, http.StatusOK, g)
}

func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage disabled")
		return
	}

	ids, err := h.store.ListGames(r.URL.Query().Get("prefix"))
	if err != nil {
		h.log.Errorw("list games", "error", err)
		writeInternalError(w)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeResponse(w, http.StatusOK, ids)
}
