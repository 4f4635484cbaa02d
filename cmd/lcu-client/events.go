package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/client"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/spf13/cobra"
)

// eventName 接受事件名或资源路径
func eventName(arg string) string {
	if strings.HasPrefix(arg, "/") {
		return endpoint.EventNameForPath(arg)
	}
	return arg
}

func eventsCmd(a *app) *cobra.Command {
	var (
		eventType string
		limit     int
		record    bool
	)

	cmd := &cobra.Command{
		Use:   "events NAME",
		Short: "Print events for a name or resource path",
		Long: `Subscribe to an event and print every payload received.

NAME is either an event name such as lol-gameflow_v1_session or a resource
path such as /lol-gameflow/v1/session. With --limit the command exits after
that many events. With --record events are written to the journal and the
most recent entries are printed before exiting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			name := eventName(args[0])
			var opts []client.Option
			var recorderClose func(context.Context) error
			var recent func() error
			if record {
				rec, store, err := a.openJournal(ctx, name)
				if err != nil {
					return err
				}
				opts = append(opts, client.WithEventHook(rec.Record))
				recorderClose = rec.Close
				recent = func() error {
					entries, err := store.Recent(context.Background(), name, limit)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), entries)
				}
			}

			cl, _, err := a.connect(ctx, opts...)
			if err != nil {
				return err
			}

			received := make(chan any, 16)
			dispose := cl.Subscribe(name, func(data any) {
				select {
				case received <- data:
				case <-ctx.Done():
				}
			}, client.WithEventType(eventType))
			defer dispose()
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening for %s (%s)\n", name, eventType)

			for count := 0; limit <= 0 || count < limit; count++ {
				select {
				case data := <-received:
					if !record {
						if err := printJSON(cmd.OutOrStdout(), data); err != nil {
							return err
						}
					}
				case <-cl.Done():
					if err := cl.Err(); err != nil {
						return err
					}
					return nil
				case <-ctx.Done():
					return nil
				}
			}

			if record {
				if err := recorderClose(context.Background()); err != nil {
					return err
				}
				return recent()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventType, "type", "t", client.DefaultEventType, "Event type to receive: Create, Update or Delete")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Exit after this many events")
	cmd.Flags().BoolVar(&record, "record", false, "Write events to the journal")
	return cmd
}
