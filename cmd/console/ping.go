package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/platform/config"
)

func newPingCmd(root *rootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the catalog API is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithEnvFile(root.envFile))
			if err != nil {
				return err
			}
			client, err := apiclient.New(apiclient.Options{
				SiteOrigin:     cfg.Server.SiteOrigin,
				UpstreamOrigin: cfg.API.Origin,
				PreviewHosts:   cfg.API.PreviewHosts,
				Timeout:        timeout,
			})
			if err != nil {
				return err
			}
			return ping(cmd.Context(), cmd, client)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

func ping(ctx context.Context, cmd *cobra.Command, client *apiclient.Client) error {
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("ping %s: %w", client.BaseURL(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", client.BaseURL(), health.Status)
	return nil
}
