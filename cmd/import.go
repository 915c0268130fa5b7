package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/ingest"
	"github.com/MananiDennis/alumniSystem/internal/search"
)

var (
	importInstitution string
	importRegion      string
	importCollect     bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a name list from an .xlsx, .xls or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read file")
		}
		names, err := ingest.ParseNames(args[0], data)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return eris.New("no valid names found in file")
		}
		zap.L().Info("parsed name list", zap.String("file", args[0]), zap.Int("names", len(names)))

		if !importCollect {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(names)
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		reqs := make([]search.Request, 0, len(names))
		for _, name := range names {
			reqs = append(reqs, search.Request{
				Name:        name,
				Institution: importInstitution,
				Region:      importRegion,
			})
		}

		result, err := env.Coordinator.AcquireBatch(ctx, reqs)
		if err != nil {
			return eris.Wrap(err, "acquire batch")
		}

		usage := env.Extractor.Usage()
		zap.L().Info("import complete",
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
	importCmd.Flags().StringVar(&importInstitution, "institution", "", "institution to bias search queries")
	importCmd.Flags().StringVar(&importRegion, "region", "", "region to bias search queries")
	importCmd.Flags().BoolVar(&importCollect, "collect", false, "acquire profiles for the parsed names")
	rootCmd.AddCommand(importCmd)
}
