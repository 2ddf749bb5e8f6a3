package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/paddock/am"
	"github.com/teranos/paddock/display"
	"github.com/teranos/paddock/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage paddock configuration",
	Long: `am - Manage paddock configuration ("I am")

Display and manage paddock configuration settings.

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/paddock/am.toml)
3. User config (~/.paddock/am.toml)
4. Project config (./am.toml, searched up from the working directory)
5. Environment variables (PADDOCK_* prefix, e.g. PADDOCK_OUTPUT_DIR)
6. Command line flags

Examples:
  paddock am show                    # Show current configuration
  paddock am show --format json      # Show configuration in JSON format
  paddock am get collect.start_season
  paddock am where                   # Show which source set each value
  paddock am validate                # Validate current configuration
  paddock am init                    # Write a starter ./am.toml`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective paddock configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., output.dir, provider.base_url)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value comes from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file holding every default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAmInit,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file (a backup is kept)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	data, err := am.Render(am.GetViper().AllSettings(), format)
	if err != nil {
		return err
	}
	if format == "toml" || format == "yaml" {
		fmt.Fprintln(cmd.OutOrStdout(), "# paddock configuration")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings := am.Introspect()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, settings)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   /etc/paddock/am.toml")
	fmt.Fprintln(out, "  3. [USER]     ~/.paddock/am.toml")
	fmt.Fprintln(out, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintln(out, "  5. [ENV]      PADDOCK_* environment variables")
	fmt.Fprintln(out)

	for _, s := range settings {
		valueStr := fmt.Sprintf("%v", s.Value)
		if len(valueStr) > 50 {
			valueStr = valueStr[:47] + "..."
		}
		origin := string(s.Source)
		if s.Source != am.SourceDefault && s.SourcePath != "" {
			origin += " " + s.SourcePath
		}
		fmt.Fprintf(out, "  %-32s = %-30s (%s)\n", s.Key, valueStr, origin)
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := "am.toml"
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "failed to resolve path")
	}
	if err := am.WriteDefaults(abs, initForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", abs)
	if _, err := os.Stat(abs + ".back1"); err == nil && initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "  previous file kept as %s.back1\n", abs)
	}
	return nil
}
