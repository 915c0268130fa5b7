package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "alumni",
	Short: "Alumni profile acquisition pipeline",
	Long:  "Searches the public web for alumni by name, extracts structured career profiles with confidence scoring, and reconciles them into a local store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
