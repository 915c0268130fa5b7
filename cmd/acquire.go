package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/search"
)

var (
	acquireInstitution string
	acquireRegion      string
	acquireContext     string
)

var acquireCmd = &cobra.Command{
	Use:   "acquire NAME...",
	Short: "Acquire alumni profiles for one or more names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		reqs := make([]search.Request, 0, len(args))
		for _, name := range args {
			reqs = append(reqs, search.Request{
				Name:        name,
				Institution: acquireInstitution,
				Region:      acquireRegion,
				Context:     acquireContext,
			})
		}

		result, err := env.Coordinator.AcquireBatch(ctx, reqs)
		if err != nil {
			return eris.Wrap(err, "acquire batch")
		}

		usage := env.Extractor.Usage()
		zap.L().Info("acquisition complete",
			zap.Int("accepted", len(result.Accepted)),
			zap.Int("failed", len(result.Failed)),
			zap.Int64("input_tokens", usage.InputTokens),
			zap.Int64("output_tokens", usage.OutputTokens),
			zap.Float64("usd", usage.USD),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	acquireCmd.Flags().StringVar(&acquireInstitution, "institution", "", "institution to bias search queries")
	acquireCmd.Flags().StringVar(&acquireRegion, "region", "", "region to bias search queries")
	acquireCmd.Flags().StringVar(&acquireContext, "context", "", "free-form context appended to search queries")
	rootCmd.AddCommand(acquireCmd)
}
