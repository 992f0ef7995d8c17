// cmd/dysdera/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/p4o1o/dysdera/dysdera"
	"github.com/p4o1o/dysdera/internal/config"
	"github.com/p4o1o/dysdera/internal/sink"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath           string
		duplicateSensibility int
		outputDir            string
		domains              []string
	)

	cmd := &cobra.Command{
		Use:   "dysdera [seed URLs...]",
		Short: "A polite, focused web crawler",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadYAML(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = loaded
			}
			if duplicateSensibility > 0 {
				cfg.DuplicateSensibility = duplicateSensibility
			}

			client, err := dysdera.New(cfg)
			if err != nil {
				return fmt.Errorf("creating crawler: %w", err)
			}

			fileSink, err := sink.NewFileSink(outputDir)
			if err != nil {
				return fmt.Errorf("creating file sink: %w", err)
			}

			pol := dysdera.Default()
			if len(domains) > 0 {
				pol = dysdera.SameDomainPolicy(domains...)
			}
			pol.AgentName = cfg.AgentName
			if cfg.UserAgent != "" {
				pol.AgentName = cfg.UserAgent
			}
			pol.RespectRobots = cfg.RespectRobots
			pol.CanonicalURL = cfg.CanonicalURL
			pol.VisitSitemap = func(string) bool { return cfg.VisitSitemaps }

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return client.Crawl(ctx, args, pol, fileSink)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&duplicateSensibility, "duplicate-sensibility", 0, "0 disables duplicate suppression, 1 exact, >1 near-duplicate Hamming distance")
	cmd.Flags().StringVar(&outputDir, "output", "./dysdera-out", "directory the file sink writes decoded page bodies into")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "restrict crawling to these domains (default: unrestricted)")

	return cmd
}
