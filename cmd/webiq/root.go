package main

import (
	"context"
	"io"
	"time"

	"webiq/internal/backend"
	"webiq/internal/chat"
	"webiq/internal/config"
	"webiq/internal/logging"
	"webiq/internal/session"
	"webiq/internal/telemetry"
	"webiq/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// flags holds overrides shared by every subcommand.
type flags struct {
	backendURL   string
	pollInterval time.Duration
	logLevel     string
	noParticles  bool
}

// runtime is the wired-up client.
type runtime struct {
	cfg      config.Config
	client   *backend.Client
	store    *session.Store
	manager  *session.Manager
	tracing  *telemetry.Provider
	logClose io.Closer
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "webiq",
		Short: "Chat with the content of any web page from your terminal",
		Long: `webiq sends URLs to a scraping backend, waits for it to index them,
then opens a live chat session to answer questions about the pages.

The session is cached in ~/.webiq (or $WEBIQ_HOME) and resumed on the next start.`,
		Example: `
# Interactive chat
webiq

# Use a local backend
webiq --backend http://localhost:8000

# One question, no TUI
webiq ask --url https://go.dev/doc/effective_go "What does the blank identifier do?"
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.runTUI()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.backendURL, "backend", "", "backend base URL (default "+config.DefaultBackendURL+")")
	pf.DurationVar(&f.pollInterval, "poll-interval", 0, "delay between readiness checks")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.Flags().BoolVar(&f.noParticles, "no-particles", false, "disable the particle banner")

	root.AddCommand(newAskCmd(&f), newStatusCmd(&f), newResetCmd(&f))
	return root
}

// setup loads config, applies flag overrides and wires the client.
func setup(ctx context.Context, f flags) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if f.backendURL != "" {
		cfg.BackendURL = f.backendURL
	}
	if f.pollInterval > 0 {
		cfg.PollInterval = f.pollInterval
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.noParticles {
		cfg.Particles = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logClose, err := logging.Setup(cfg.Home, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tracing, err := telemetry.Setup(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}

	client := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout)
	store := session.NewStore(cfg.Home)
	log.Info().Str("backend", client.BaseURL()).Str("home", cfg.Home).Msg("webiq starting")

	return &runtime{
		cfg:      cfg,
		client:   client,
		store:    store,
		manager:  session.NewManager(client, store, cfg.PollInterval),
		tracing:  tracing,
		logClose: logClose,
	}, nil
}

// dial opens the chat socket for a session.
func (rt *runtime) dial(ctx context.Context, sessionID string) (*chat.Conn, error) {
	url, err := rt.client.ChatURL(sessionID)
	if err != nil {
		return nil, err
	}
	return chat.Dial(ctx, url, rt.cfg.HandshakeTimeout)
}

func (rt *runtime) runTUI() error {
	model := ui.NewModel(ui.Options{
		Lifecycle: rt.manager,
		Dial: func(ctx context.Context, sessionID string) (ui.Socket, error) {
			conn, err := rt.dial(ctx, sessionID)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		Particles:     rt.cfg.Particles,
		ParticleCount: rt.cfg.ParticleCount,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (rt *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.tracing.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("tracing shutdown")
	}
	_ = rt.logClose.Close()
}
