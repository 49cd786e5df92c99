package main

import (
	"strings"

	"github.com/fwojciec/relay"
	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		providerFlag string
		system       string
		renderMD     bool
	)
	cmd := &cobra.Command{
		Use:   "ask <text...>",
		Short: "Ask a single question and stream the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			var msgs []relay.Message
			if system != "" {
				msgs = append(msgs, relay.SystemMessage(system))
			}
			msgs = append(msgs, relay.UserMessage(text))

			p := newPrinter(cmd.OutOrStdout(), relay.DefaultTheme(), renderMD)
			out := a.router.Run(cmd.Context(), a.providerID(providerFlag), relay.Request{
				Text:     text,
				Messages: msgs,
			}, p.progress)
			p.finish(out)
			return outcomeError(out)
		},
	}
	cmd.Flags().StringVarP(&providerFlag, "provider", "p", "", "provider id (default from config)")
	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt")
	cmd.Flags().BoolVar(&renderMD, "markdown", false, "render the answer as markdown")
	return cmd
}
