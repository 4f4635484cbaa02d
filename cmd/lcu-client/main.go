package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "lcu-client",
		Short: "Talk to the local League Client over HTTPS and WAMP",
		Long: `lcu-client locates a running League Client, validates its port and
credentials, and exposes resource requests, RPC calls and live event
subscriptions from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.cleaner.Clean()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.json", "Path of the configuration file")

	rootCmd.AddCommand(
		statusCmd(a),
		fetchCmd(a),
		callCmd(a),
		eventsCmd(a),
		watchCmd(a),
		endpointsCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		if a.cleaner != nil {
			a.cleaner.Clean()
		}
		os.Exit(1)
	}
}
