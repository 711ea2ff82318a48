package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vibesense/internal/vibeprofile"
)

var (
	flagProfileTags string
	flagProfileJSON bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <account-type>",
	Short: "Show the guardian profile derived from an account",
	Long: "Profile prints the session-health configuration that an account\n" +
		"type plus interest tags would produce: whether monitoring is\n" +
		"enabled, thresholds, and which moods count as positive.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"personal", "pro_creator", "pro_business"},
	RunE:      runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagProfileTags, "tags", "", "comma-separated interest tags")
	profileCmd.Flags().BoolVar(&flagProfileJSON, "json", false, "emit the profile as JSON")
}

func runProfile(cmd *cobra.Command, args []string) error {
	account := vibeprofile.AccountType(args[0])
	switch account {
	case vibeprofile.AccountPersonal, vibeprofile.AccountCreator, vibeprofile.AccountBusiness:
	default:
		return fmt.Errorf("unknown account type: %s", args[0])
	}

	var tags []string
	for _, tag := range strings.Split(flagProfileTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	profile := vibeprofile.Build(account, tags)

	if flagProfileJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	fmt.Printf("Account:          %s\n", account)
	if len(tags) > 0 {
		fmt.Printf("Tags:             %s\n", strings.Join(tags, ", "))
	}
	fmt.Printf("Monitoring:       %v\n", profile.Enabled)
	if !profile.Enabled {
		return nil
	}
	fmt.Printf("Min session:      %s\n", profile.MinSession.Round(time.Second))
	fmt.Printf("Alert threshold:  %.2f\n", profile.AlertThreshold)
	fmt.Printf("Passive timeout:  %s\n", profile.PassiveTimeout.Round(time.Second))
	moods := make([]string, len(profile.PositiveMoods))
	for i, m := range profile.PositiveMoods {
		moods[i] = string(m)
	}
	fmt.Printf("Positive moods:   %s\n", strings.Join(moods, ", "))
	return nil
}
