package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vibesense/internal/trace"
)

var validateCmd = &cobra.Command{
	Use:   "validate <trace.json>...",
	Short: "Validate trace files against the trace schema",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failed++
			continue
		}
		if err := trace.Validate(data); err != nil {
			fmt.Printf("%s: invalid: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d trace(s) failed validation", failed, len(args))
	}
	return nil
}
