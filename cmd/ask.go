package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/socialproof/socialproof/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the Digital Guardian a security question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(ctx context.Context, question string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	answer, err := a.Engine.AskGuardian(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	return nil
}
