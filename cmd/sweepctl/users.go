package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// userCmd groups user management commands.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage sweepd users",
}

// prefsCmd groups preference commands.
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage filtering preferences",
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user with default filtering preferences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			UserID   int    `json:"user_id"`
			Username string `json:"username"`
		}
		if err := postJSON("/api/users", map[string]any{"username": args[0]}, &resp); err != nil {
			return err
		}
		fmt.Printf("Created user %q with ID %d\n", resp.Username, resp.UserID)
		return nil
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get [user-id]",
	Short: "Print a user's filtering preferences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefs map[string]any
		if err := getJSON(fmt.Sprintf("/api/users/%s/preferences", args[0]), &prefs); err != nil {
			return err
		}
		out, err := json.MarshalIndent(prefs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format preferences: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var (
	prefsSetFilters       map[string]string
	prefsSetSensitivities map[string]string
)

var prefsSetCmd = &cobra.Command{
	Use:   "set [user-id]",
	Short: "Update a user's filtering preferences",
	Long: `Update a user's filtering preferences. Unspecified fields keep
their prior value.

Examples:
  # Raise violence sensitivity and disable the language filter
  sweepctl prefs set 1 --sensitivity violence=high --filter language=off`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefsSet,
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	prefsSetCmd.Flags().StringToStringVar(&prefsSetFilters, "filter", nil,
		"enable/disable a category filter, e.g. language=off (on|off)")
	prefsSetCmd.Flags().StringToStringVar(&prefsSetSensitivities, "sensitivity", nil,
		"set a category sensitivity, e.g. violence=high (low|medium|high)")
}

// filterFields maps CLI category names to API field prefixes.
var filterFields = map[string]string{
	"language": "language",
	"sexual":   "sexual_content",
	"violence": "violence",
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	body := map[string]any{}

	for category, state := range prefsSetFilters {
		field, ok := filterFields[category]
		if !ok {
			return fmt.Errorf("unknown category %q (language, sexual, violence)", category)
		}
		switch state {
		case "on":
			body[field+"_filter"] = true
		case "off":
			body[field+"_filter"] = false
		default:
			return fmt.Errorf("filter value must be 'on' or 'off', got %q", state)
		}
	}

	for category, level := range prefsSetSensitivities {
		field, ok := filterFields[category]
		if !ok {
			return fmt.Errorf("unknown category %q (language, sexual, violence)", category)
		}
		body[field+"_sensitivity"] = level
	}

	if len(body) == 0 {
		return fmt.Errorf("nothing to update: pass --filter and/or --sensitivity")
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := putJSON(fmt.Sprintf("/api/users/%s/preferences", args[0]), body, &resp); err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}
