package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	askFormat  string
	askTimeout time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the consultation",
	Long: `Ask runs a single consultation: intent analysis, emergency grading,
retrieval from the drug corpus and answer generation.

Example:
  yaktalk ask "타이레놀 먹고 속이 쓰려요"
  yaktalk ask "게보린 하루에 몇 번 먹어요?" --format json`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(askFormat)
	},
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askFormat, "format", "f", formatText, "output format (text, json, yaml)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 3*time.Minute, "overall consultation timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.Service.Complete(ctx, strings.Join(args, " "))
	if err := writeConsultation(cmd.OutOrStdout(), askFormat, res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Error)
	}
	return nil
}
