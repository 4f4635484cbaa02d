package main

import (
	"fmt"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/fetch"
	"github.com/spf13/cobra"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the client is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pt, err := a.portToken(ctx)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Disconnected:", err)
				return nil
			}
			status, err := fetch.Get(ctx, a.fetcher, endpoint.SummonerStatus, pt, nil, nil)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Disconnected:", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected: %s ready=%v\n", pt.Host(), status.Ready)
			return nil
		},
	}
}
