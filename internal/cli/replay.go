package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vibesense/internal/config"
	"vibesense/internal/logging"
	"vibesense/internal/mood"
	"vibesense/internal/trace"
)

var (
	flagReplayJSON     bool
	flagReplayInterval int
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.json>",
	Short: "Replay a recorded session trace through the detection pipeline",
	Long: "Replay validates a recorded trace against the trace schema, feeds\n" +
		"every event through the telemetry tracker, mood detector, and vibe\n" +
		"guardian on a synthetic clock, and prints the resulting analysis.",
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayJSON, "json", false, "emit the result as JSON")
	replayCmd.Flags().IntVar(&flagReplayInterval, "snapshot-interval", 0, "guardian snapshot interval in seconds (0 = config default)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	t, err := trace.Load(args[0])
	if err != nil {
		return err
	}

	cfg, _, err := config.LoadOrCreate(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	interval := cfg.Guardian.SnapshotInterval()
	if flagReplayInterval > 0 {
		interval = time.Duration(flagReplayInterval) * time.Second
	}

	replayer := trace.NewReplayer(t,
		trace.WithLogger(logging.WithComponent(logging.Default(), "replay")),
		trace.WithSnapshotInterval(interval))

	result, err := replayer.Run(cmd.Context())
	if err != nil {
		return err
	}

	if flagReplayJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(t, result)
	return nil
}

func printResult(t *trace.Trace, result *trace.Result) {
	fmt.Printf("Trace: %d events over %s (%s account)\n",
		len(t.Events), t.Duration().Round(time.Second), t.AccountType)
	fmt.Printf("Primary mood: %s (confidence %.2f)\n",
		result.Analysis.PrimaryMood, result.Analysis.Confidence)

	fmt.Println("Probabilities:")
	for _, m := range mood.Order {
		fmt.Printf("  %-10s %.3f\n", m, result.Analysis.Probabilities.Get(m))
	}

	if !result.MonitoringEnabled {
		fmt.Println("Guardian: disabled for this account profile")
		return
	}

	fmt.Printf("Health: %s (degradation %.2f, passive %.2f)\n",
		result.Health.Level,
		result.Health.DegradationScore,
		result.Health.PassiveConsumptionRatio)
	fmt.Printf("Recap: %d min, trajectory %s, %d positive interactions, %s -> %s\n",
		result.Recap.DurationMinutes,
		result.Recap.Trajectory,
		result.Recap.PositiveInteractions,
		result.Recap.StartMood,
		result.Recap.EndMood)
}
