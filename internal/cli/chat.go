package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/docqa/internal/present/tui"
	"github.com/mithrel/docqa/pkg/api"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "chat [doc]",
		Short:             "Open the interactive dashboard, optionally chatting with a document",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var open *api.Document
			if len(args) == 1 {
				d, err := resolveDocument(cmd.Context(), app, args[0])
				if err != nil {
					return err
				}
				open = &d
			}
			return tui.Run(cmd.Context(), dashboardOptions(app, open))
		},
	}
}
