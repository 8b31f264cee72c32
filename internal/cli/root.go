package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/docqa/internal/config"
	"github.com/mithrel/docqa/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// skipAppAnnotation marks commands that run without backend, keys or DB.
const skipAppAnnotation = "docqa/no-app"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	var app *wire.App

	cmd := &cobra.Command{
		Use:           "docqa-cli",
		Short:         "docqa: ask questions about your PDFs from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"server":    "server.url",
				"log-level": "log.level",
			})
			ctx := context.WithValue(cmd.Context(), configKey, v)
			cmd.SetContext(ctx)
			if skipsApp(cmd) {
				return nil
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}
			var err error
			app, err = wire.BuildApp(ctx, v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(ctx, appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")
	cmd.PersistentFlags().String("server", "", "backend base URL (overrides server.url)")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides log.level)")

	cmd.AddCommand(newSignupCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newDocCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

const configKey ctxKey = "config"

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipAppAnnotation] == "true" {
			return true
		}
	}
	return cmd.Name() == "help" || cmd.Name() == "docqa-cli"
}

func noApp() map[string]string {
	return map[string]string{skipAppAnnotation: "true"}
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

// getConfig returns the loaded configuration; it is available to every
// command, including those that run without the app.
func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(configKey).(*viper.Viper); ok {
		return v
	}
	v := viper.New()
	_ = config.Load(cmd.Context(), v)
	return v
}
