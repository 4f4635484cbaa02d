package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/fetch"
	"github.com/spf13/cobra"
)

func fetchCmd(a *app) *cobra.Command {
	var (
		raw     bool
		output  string
		method  string
		body    string
		params  []string
		queries []string
	)

	cmd := &cobra.Command{
		Use:   "fetch ENDPOINT",
		Short: "Request a resource by endpoint id or raw path",
		Long: `Request a resource from the client.

ENDPOINT is an endpoint id such as /lol-summoner/v1/summoners/:id, with
parameters given by --param. With --raw any path is requested as is and
the response is printed without validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pt, err := a.portToken(ctx)
			if err != nil {
				return err
			}
			reqInit := &fetch.Init{Method: endpoint.Method(strings.ToUpper(method))}
			if body != "" {
				reqInit.Body = []byte(body)
			}

			var result any
			if raw {
				resp, err := a.fetcher.Raw(ctx, args[0], pt, reqInit)
				if err != nil {
					return err
				}
				if v, ok := resp.JSON(); ok {
					result = v
				} else {
					result = resp.Body
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\n", resp.StatusCode, resp.ContentType)
			} else {
				p, err := parsePairs(params)
				if err != nil {
					return err
				}
				q, err := parseQuery(queries)
				if err != nil {
					return err
				}
				result, err = a.fetcher.Fetch(ctx, args[0], pt, p, q, reqInit)
				if err != nil {
					return err
				}
			}

			if data, ok := result.([]byte); ok {
				if output == "" {
					return fmt.Errorf("binary response of %d bytes, use --output to save it", len(data))
				}
				return os.WriteFile(output, data, 0644)
			}
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				return printJSON(f, result)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Request the path as is without validation")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the response to a file")
	cmd.Flags().StringVarP(&method, "method", "X", "", "Override the request method")
	cmd.Flags().StringVarP(&body, "data", "d", "", "Request body")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Path parameter as name=value")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query parameter as name=value, repeatable")
	return cmd
}
