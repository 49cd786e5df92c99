package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	relayjson "github.com/fwojciec/relay/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newChatCmd(a *app) *cobra.Command {
	var (
		providerFlag string
		system       string
		transcript   string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Hold a multi-turn conversation over stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(transcript, system)
			if err != nil {
				return err
			}
			id := a.providerID(providerFlag)
			out := cmd.OutOrStdout()
			logger := a.logger.With(zap.String("session", session.ID), zap.String("provider", id))

			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "> ")
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				switch text {
				case "":
					fmt.Fprint(out, "> ")
					continue
				case "/exit", "/quit":
					return saveSession(transcript, session)
				}

				p := newPrinter(out, relay.DefaultTheme(), true)
				result := a.router.Run(cmd.Context(), id, session.Request(text), p.progress)
				p.finish(result)
				if !session.Record(text, result, time.Now()) {
					logger.Warn("turn not recorded", zap.String("status", string(result.Status)), zap.Error(result.Err))
				}
				if cmd.Context().Err() != nil {
					break
				}
				fmt.Fprint(out, "> ")
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(out)
			return saveSession(transcript, session)
		},
	}
	cmd.Flags().StringVarP(&providerFlag, "provider", "p", "", "provider id (default from config)")
	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt for a new conversation")
	cmd.Flags().StringVarP(&transcript, "transcript", "t", "", "load and save the conversation at this path")
	return cmd
}

// openSession resumes the transcript at path, or starts a new session when
// path is empty or does not exist yet.
func openSession(path, system string) (relay.Session, error) {
	if path != "" {
		s, err := relayjson.Load(path)
		switch {
		case err == nil:
			return s, nil
		case !errors.Is(err, fs.ErrNotExist):
			return relay.Session{}, fmt.Errorf("load transcript: %w", err)
		}
	}
	return relay.NewSession(system, time.Now()), nil
}

func saveSession(path string, s relay.Session) error {
	if path == "" || len(s.Messages) == 0 {
		return nil
	}
	if err := relayjson.Save(path, s); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}
