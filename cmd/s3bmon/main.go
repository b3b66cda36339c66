package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ivoronin/s3bmon/internal/config"
	"github.com/ivoronin/s3bmon/internal/logging"
	"github.com/ivoronin/s3bmon/internal/provider"
	"github.com/ivoronin/s3bmon/internal/tui"
)

var (
	flagConfig   string
	flagInterval int
	flagProfile  string
	flagRegion   string
)

var rootCmd = &cobra.Command{
	Use:   "s3bmon",
	Short: "Monitor S3 Batch Operations jobs in a live terminal table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.Flags().IntVarP(&flagInterval, "interval", "i", 0, "refresh interval in seconds")
	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "AWS profile")
	rootCmd.Flags().StringVar(&flagRegion, "region", "", "AWS region")
}

func run(ctx context.Context) error {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	if flagInterval > 0 {
		cfg.RefreshIntervalSeconds = flagInterval
	}
	if flagProfile != "" {
		cfg.AWS.Profile = flagProfile
	}
	if flagRegion != "" {
		cfg.AWS.Region = flagRegion
	}

	logger, closer, err := logging.New(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := provider.NewAWSClient(ctx, provider.Options{
		Profile: cfg.AWS.Profile,
		Region:  cfg.AWS.Region,
	})
	if err != nil {
		return err
	}

	app := tui.NewApp(cfg, client, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
