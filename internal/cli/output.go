package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/docqa/internal/present"
	"github.com/mithrel/docqa/internal/present/format"
)

func addOutputFlag(cmd *cobra.Command, target *string, modes string) {
	cmd.Flags().StringVar(target, "output", "", "output mode: "+modes+" (default output.mode)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return strings.Split(modes, "|"), cobra.ShellCompDirectiveNoFileComp
	})
}

// parseOutput resolves --output, falling back to output.mode. Commands
// without a TUI fall back to plain when output.mode is tui.
func parseOutput(cmd *cobra.Command, raw string, allowTUI bool) (present.Mode, error) {
	fromConfig := raw == ""
	if fromConfig {
		raw = getConfig(cmd).GetString("output.mode")
	}
	mode, ok := present.ParseMode(raw)
	if !ok {
		return mode, fmt.Errorf("invalid --output: %s", raw)
	}
	if mode == present.ModeTUI && !allowTUI {
		if fromConfig {
			return present.ModePlain, nil
		}
		return mode, fmt.Errorf("--output tui is not supported by %s", cmd.CommandPath())
	}
	return mode, nil
}

// presentOptions builds renderer options from config.
func presentOptions(v *viper.Viper, mode present.Mode, headers bool) present.Options {
	return present.Options{
		Mode:    mode,
		Headers: headers,
		Pretty: format.PrettyOptions{
			Style: v.GetString("pretty.style"),
			Width: v.GetInt("pretty.width"),
		},
	}
}
