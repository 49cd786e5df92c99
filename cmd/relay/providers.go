package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProvidersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUPSTREAM\tENDPOINT")
			for _, id := range a.router.IDs() {
				p, _ := a.router.Provider(id)
				if id == a.cfg.DefaultProvider {
					id += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, p.Name, p.Endpoint)
			}
			return w.Flush()
		},
	}
}
