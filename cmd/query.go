package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/MananiDennis/alumniSystem/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query QUESTION...",
	Short: "Ask a free-text question about the stored profiles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Query.Ask(ctx, strings.Join(args, " "))
		if eris.Is(err, query.ErrUnavailable) {
			return eris.New("query needs ALUMNI_ANTHROPIC_KEY to be set")
		}
		if err != nil {
			return eris.Wrap(err, "query")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
