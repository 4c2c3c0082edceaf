package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var searchFormat string

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Show the passages retrieved for a query without generating an answer",
	Args:  cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(searchFormat)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Service.Search(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return writeSearch(cmd.OutOrStdout(), searchFormat, res)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", formatText, "output format (text, json, yaml)")
}
