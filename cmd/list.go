package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

var (
	listIndustry      string
	listGradYear      int
	listMinConfidence float64
	listLimit         int
	listOffset        int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		profiles, err := st.ListAll(ctx, store.Filter{
			Industry:       model.Industry(listIndustry),
			GraduationYear: listGradYear,
			MinConfidence:  listMinConfidence,
			Limit:          listLimit,
			Offset:         listOffset,
		})
		if err != nil {
			return eris.Wrap(err, "list profiles")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	},
}

func init() {
	listCmd.Flags().StringVar(&listIndustry, "industry", "", "filter by normalized industry")
	listCmd.Flags().IntVar(&listGradYear, "grad-year", 0, "filter by graduation year")
	listCmd.Flags().Float64Var(&listMinConfidence, "min-confidence", 0, "filter by minimum confidence score")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of profiles to return")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of profiles to skip")
	rootCmd.AddCommand(listCmd)
}
