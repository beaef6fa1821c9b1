package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/csc667-team-z-j/holdem-engine/internal/broadcast"
	"github.com/csc667-team-z-j/holdem-engine/internal/config"
	"github.com/csc667-team-z-j/holdem-engine/internal/engine"
	"github.com/csc667-team-z-j/holdem-engine/internal/store"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

// clientMessage is the inbound frame shape: "action" frames carry an
// in-hand Action and "startHand" frames ask the room to start a hand.
// Seating happens on connect, from the query parameters; Action is only
// used when Type == "action".
type clientMessage struct {
	Type     string        `json:"type"`
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
	Action   engine.Action `json:"action"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Printf("error loading config: %v\n", err)
		kctx.Exit(1)
	}
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	var handStore engine.Store
	if cfg.Server.PostgresDSN != "" {
		storeLogger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "store").Logger()
		db, err := store.Open(context.Background(), cfg.Server.PostgresDSN, storeLogger)
		if err != nil {
			logger.Fatal("failed to connect to postgres", "error", err)
		}
		if err := store.Migrate(context.Background(), db); err != nil {
			logger.Fatal("failed to migrate schema", "error", err)
		}
		handStore = store.NewPostgresStore(db)
		logger.Info("persistence enabled", "dsn", "configured")
	} else {
		logger.Warn("no postgres_dsn configured; hand history will not be persisted")
	}

	hub := broadcast.NewHub(logger)
	clock := quartz.NewReal()

	rooms := make(map[string]*engine.Engine, len(cfg.Rooms))
	for _, roomCfg := range cfg.Rooms {
		e := engine.NewEngine(roomCfg.Name, roomCfg.Name, roomCfg.EngineConfig(), hub, handStore, clock, logger)
		rooms[roomCfg.Name] = e
		logger.Info("room configured", "name", roomCfg.Name,
			"smallBlind", roomCfg.EngineConfig().SmallBlind,
			"bigBlind", roomCfg.EngineConfig().BigBlind)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		userID := r.URL.Query().Get("userId")
		username := r.URL.Query().Get("username")

		room, ok := rooms[roomID]
		if !ok {
			http.Error(w, "unknown room", http.StatusNotFound)
			return
		}

		if err := room.Seat(userID, username); err != nil {
			logger.Warn("seat rejected", "room", roomID, "user", userID, "error", err)
		}

		_, err := hub.Upgrade(w, r, roomID, userID, func(raw []byte) {
			var msg clientMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				logger.Warn("malformed client frame", "error", err, "user", userID)
				return
			}
			switch msg.Type {
			case "action":
				if err := room.SubmitAction(context.Background(), userID, msg.Action); err != nil {
					logger.Debug("action rejected", "user", userID, "error", err)
				}
			case "startHand":
				if err := room.StartHand(context.Background()); err != nil {
					logger.Debug("start hand rejected", "room", roomID, "error", err)
				}
			}
		})
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("starting server", "addr", addr, "rooms", len(rooms))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	_ = srv.Shutdown(context.Background())
}
