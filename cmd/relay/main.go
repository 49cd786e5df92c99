// Command relay streams answers from several LLM chat APIs.
//
// Usage:
//
//	relay ask [--provider id] [--system text] [--markdown] <text...>
//	relay chat [--provider id] [--system text] [--transcript path]
//	relay providers
//
// Global flags:
//
//	--config string      Path to relay.yaml (default: ./relay.yaml, then ~/.config/relay/relay.yaml)
//	--log-level string   Override the configured log level
//
// API keys come from the environment (DEEPSEEK_API_KEY, NEBIUS_API_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY) unless the config file
// sets them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&app{
		getenv: os.Getenv,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	})
	return root.ExecuteContext(ctx)
}
