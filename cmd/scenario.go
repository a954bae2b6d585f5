package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/socialproof/socialproof/internal/app"
	"github.com/socialproof/socialproof/internal/scenario"
)

var (
	flagPlayerID string
	flagSkill    float64
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario <type>",
	Short: "Generate a single training scenario",
	Long: fmt.Sprintf(`Generate one training scenario and print it as JSON.

Scenario types: %s`, strings.Join(scenario.Types(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenario(cmd.Context(), args[0])
	},
}

func init() {
	scenarioCmd.Flags().StringVar(&flagPlayerID, "player", "", "player ID to persist the scenario for")
	scenarioCmd.Flags().Float64Var(&flagSkill, "skill", 500, "player skill rating (0-1000)")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(ctx context.Context, scenarioType string) error {
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

	result, recordID := a.Engine.GenerateScenario(ctx, flagPlayerID, flagSkill, scenarioType)

	out := struct {
		scenario.Result
		RecordID string `json:"record_id,omitempty"`
	}{Result: result, RecordID: recordID}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
