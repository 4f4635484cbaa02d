package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func endpointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the known endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tENDPOINT\tRETURNS\tPARAMS")
			for _, d := range a.fetcher.Table().Descriptors() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Method, d.ID, d.Return.Name(), strings.Join(d.Params(), ","))
			}
			return w.Flush()
		},
	}
}
