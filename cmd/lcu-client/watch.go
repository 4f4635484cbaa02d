package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/client"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/monitor"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/shutdown"
	"github.com/spf13/cobra"
)

// watchCmd 跟随客户端的启动与退出，连接时打印游戏流程阶段变化
func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the client lifecycle and gameflow phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			config := monitor.ConfigFrom(a.config)
			config.Locator = a.locator
			config.Fetcher = a.fetcher
			config.ClientOptions = []client.Option{client.WithMetrics(a.metrics)}
			m, err := monitor.New(config)
			if err != nil {
				return err
			}

			a.cleaner.Add(shutdown.CallableFunc(func(context.Context) error {
				m.Close()
				return nil
			}))

			out := cmd.OutOrStdout()
			var dispose func()
			m.Subscribe(func(status monitor.Status) {
				fmt.Fprintln(out, "Status:", status)
				if dispose != nil {
					dispose()
					dispose = nil
				}
				cl := m.Client()
				if status != monitor.Connected || cl == nil {
					return
				}
				dispose = client.SubscribeAs(cl, endpoint.GameflowSession, func(s schema.GameflowSessionPayload) {
					fmt.Fprintln(out, "Phase:", s.Phase)
				})
			})

			if err := m.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			if dispose != nil {
				dispose()
			}
			return nil
		},
	}
}
