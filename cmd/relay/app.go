package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds process-wide dependencies. Environment and standard streams are
// injected so commands can be driven from tests.
type app struct {
	getenv func(string) string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
	router *relay.Router
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "relay",
		Short:         "Stream answers from DeepSeek, Nebius, OpenAI, Gemini and Anthropic",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to relay.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newAskCmd(a), newChatCmd(a), newProvidersCmd(a))
	return root
}

// setup loads configuration and builds the logger and router.
func (a *app) setup() error {
	path, err := config.FindConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("loaded config", zap.String("path", path))
	}

	cfg = cfg.Expand(a.getenv)
	for id, pc := range cfg.Providers {
		if pc.APIKey == "" {
			logger.Debug("provider has no api key", zap.String("provider", id))
		}
	}

	client := relay.NewClient(
		relay.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		relay.WithLogger(logger),
	)
	a.cfg = cfg
	a.logger = logger
	a.router = relay.NewRouter(client, cfg.BuildProviders())
	return nil
}

// providerID returns flag when set, otherwise the configured default.
func (a *app) providerID(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.DefaultProvider
}

// outcomeError converts a non-complete outcome into the command's error.
func outcomeError(out relay.Outcome) error {
	if out.OK() {
		return nil
	}
	if out.Err != nil {
		return fmt.Errorf("%s: %w", out.Status, out.Err)
	}
	return fmt.Errorf("%s", out.Status)
}
