package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/tactics5x5/arena/internal/config"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/match"
	"github.com/tactics5x5/arena/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	registry := transport.NewRegistry(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := match.NewManager(ctx, registry, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(zapRequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	srv := &server{cfg: cfg, manager: manager, log: logger}

	r.Get("/healthz", srv.health)
	r.Get("/readyz", srv.ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/matches", srv.createMatch)
	r.Get("/ws", srv.handleWS)

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("starting server", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server forced to shutdown", zap.Error(err))
	}
	if err := manager.Shutdown(); err != nil {
		logger.Error("match manager shutdown returned an error", zap.Error(err))
	}
	if err := registry.Shutdown(); err != nil {
		logger.Error("connection registry shutdown returned an error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func zapRequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

type server struct {
	cfg     *config.Config
	manager *match.Manager
	log     *zap.Logger
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "timestamp": time.Now().UTC()})
}

func (s *server) ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}

// createMatchRequest is the body of POST /matches. Matchmaking itself
// (how two players agree to play) is outside the wire protocol spec.md
// §6 defines, so this is a minimal HTTP-side supplement that exists only
// to give the Match Manager a caller — whatever fronts this service picks
// the hero classes and hands the resulting matchId to both clients.
type createMatchRequest struct {
	P1Class string `json:"p1Class"`
	P2Class string `json:"p2Class"`
}

type createMatchResponse struct {
	MatchID string `json:"matchId"`
}

func (s *server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed message"})
		return
	}

	seed := randomSeed()
	if s.cfg.SeedFromEnv {
		seed = s.cfg.FixedSeed
	}

	matchID := uuid.NewString()
	if _, err := s.manager.Create(matchID, entity.HeroClass(req.P1Class), entity.HeroClass(req.P2Class), seed); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, createMatchResponse{MatchID: matchID})
}

// handleWS accepts a websocket connection and routes its first join_match
// message to the Match Manager. A connection that never sends join_match
// within its first read is simply closed; there is no broader handshake
// per spec.md §6.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.AllowedOrigins,
	})
	if err != nil {
		s.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	conn := transport.NewWSConn(ws)
	connectionID := uuid.NewString()

	ctx := r.Context()
	matchID, slot, err := s.awaitJoin(ctx, connectionID, conn)
	if err != nil {
		s.log.Info("connection closed before join_match", zap.String("connectionId", connectionID), zap.Error(err))
		_ = conn.Close()
		return
	}

	if err := s.manager.Connect(matchID, connectionID, slot, conn); err != nil {
		_ = conn.Close()
		return
	}
	defer s.manager.Disconnect(matchID, connectionID)

	s.readLoop(ctx, matchID, connectionID, conn)
}

// awaitJoin blocks on the connection's first frame, decoding it as a
// join_match envelope. Anything else is a protocol violation and closes
// the connection rather than attempting recovery.
func (s *server) awaitJoin(ctx context.Context, connectionID string, conn transport.Conn) (string, transport.Slot, error) {
	data, err := conn.Receive(ctx)
	if err != nil {
		return "", "", err
	}
	env, err := transport.DecodeEnvelope(data)
	if err != nil || env.Type != transport.TagJoinMatch {
		return "", "", transport.ErrMalformed
	}
	var p transport.JoinMatchPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return "", "", transport.ErrMalformed
	}
	slot := transport.SlotP1
	if entity.PlayerID(p.PlayerID) == entity.P2 {
		slot = transport.SlotP2
	}
	return p.MatchID, slot, nil
}

func (s *server) readLoop(ctx context.Context, matchID, connectionID string, conn transport.Conn) {
	for {
		data, err := conn.Receive(ctx)
		if err != nil {
			return
		}
		env, err := transport.DecodeEnvelope(data)
		if err != nil {
			continue
		}
		if err := s.manager.Dispatch(matchID, connectionID, env); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// randomSeed draws a fresh 64-bit seed from the OS random source for
// matches created without an explicit MATCH_SEED override.
func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}
