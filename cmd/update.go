package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/schedule"
)

var updateTier string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-acquire profiles that are due for a refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		tier := schedule.Tier(updateTier)
		switch tier {
		case schedule.TierImmediate, schedule.TierShould, schedule.TierCan:
		default:
			return eris.Errorf("unknown tier: %s", updateTier)
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Updater.Run(ctx, tier)
		if err != nil {
			return eris.Wrap(err, "update run")
		}

		usage := env.Extractor.Usage()
		zap.L().Info("update complete",
			zap.String("tier", updateTier),
			zap.Int("accepted", len(result.Accepted)),
			zap.Int("failed", len(result.Failed)),
			zap.Float64("usd", usage.USD),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTier, "tier", string(schedule.TierShould), "urgency tier to refresh (immediate, should, can)")
	rootCmd.AddCommand(updateCmd)
}
