package main

import (
	"github.com/spf13/cobra"
)

func callCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call ENDPOINT",
		Short: "Invoke an endpoint over the WAMP connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, _, err := a.connect(ctx)
			if err != nil {
				return err
			}
			result, err := cl.Call(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}
