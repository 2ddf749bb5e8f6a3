// Package display renders command output for terminals and for machines.
package display

import (
	"os"

	"github.com/spf13/cobra"
)

// ShouldOutputJSON determines if a command should output JSON: an explicit
// --json flag wins, then the root's persistent --json, then PADDOCK_JSON.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return os.Getenv("PADDOCK_JSON") != ""
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		on, _ := cmd.Flags().GetBool("json")
		return on
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return os.Getenv("PADDOCK_JSON") != ""
}

// OutputJSON writes v as JSON to the command's stdout.
func OutputJSON(cmd *cobra.Command, v interface{}) error {
	return WriteJSON(cmd.OutOrStdout(), v)
}
