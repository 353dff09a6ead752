package app

import (
	"github.com/spf13/cobra"

	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/daemon"
	"github.com/giftring/giftring/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().StringVar(&configPath, "config", "etc/", "Path to the configuration directory")

	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().BoolVar(
		&mockMode,
		"mock",
		false,
		"Run against an in-memory database seeded with fixture data",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration directory

	cfg      config.Config
	err      error
	devMode  bool
	mockMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GiftRing web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}

			if mockMode {
				cfg.Mock = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d := daemon.New(&cfg)

			go d.WaitShutdown()

			if err := d.Start(); err != nil {
				return err
			}

			return nil
		},
	}
)
