package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mithrel/docqa/internal/export"
	"github.com/mithrel/docqa/internal/present"
	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/internal/util"
	"github.com/mithrel/docqa/internal/wire"
	"github.com/mithrel/docqa/pkg/api"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Work with the local chat history",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

// historyDocument resolves <doc> for history commands. The transcript of a
// document that is gone from the server is still reachable by its ID.
func historyDocument(ctx context.Context, app *wire.App, arg string) (api.Document, error) {
	d, err := resolveDocument(ctx, app, arg)
	if err == nil {
		return d, nil
	}
	if id, perr := strconv.ParseInt(strings.TrimSpace(arg), 10, 64); perr == nil && id > 0 {
		return api.Document{ID: id, Filename: "document " + strconv.FormatInt(id, 10)}, nil
	}
	return api.Document{}, err
}

func newHistoryListCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents with a local chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(cmd, outputMode, false)
			if err != nil {
				return err
			}
			hist, err := app.Store.Messages.Documents(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch mode {
			case present.ModeJSON:
				return format.WriteJSON(w, hist, false)
			case present.ModeNDJSON:
				return format.WriteNDJSON(w, hist)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "document\tmessages\tlast")
			for _, h := range hist {
				_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\n", h.DocumentID, h.Messages, humanize.Time(h.LastAt))
			}
			return tw.Flush()
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|json|ndjson")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var outputMode, since, until string
	var limit int
	cmd := &cobra.Command{
		Use:               "show <doc>",
		Short:             "Show the conversation with a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(cmd, outputMode, false)
			if err != nil {
				return err
			}
			rng, err := util.ParseTimeRange(since, until, time.Now())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = app.Cfg.GetInt("history.limit")
			}
			d, err := historyDocument(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			msgs, err := app.Chat.History(cmd.Context(), d.ID, limit)
			if err != nil {
				return err
			}
			msgs = filterMessages(msgs, rng)
			if len(msgs) == 0 && mode == present.ModePlain {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No messages for %s.\n", d.DisplayName())
				return nil
			}
			opts := presentOptions(app.Cfg, mode, true)
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderMessages(w, d.DisplayName(), msgs, opts)
			})
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|pretty|json|ndjson")
	cmd.Flags().IntVar(&limit, "limit", 0, "show the newest N messages (default history.limit; 0 shows all)")
	cmd.Flags().StringVar(&since, "since", "", "only messages after this time (e.g. 2d, 3h, 2025-01-02)")
	cmd.Flags().StringVar(&until, "until", "", "only messages before this time")
	return cmd
}

func filterMessages(msgs []api.Message, rng util.TimeRange) []api.Message {
	if rng.IsZero() {
		return msgs
	}
	out := msgs[:0:0]
	for _, m := range msgs {
		if rng.Contains(m.CreatedAt) {
			out = append(out, m)
		}
	}
	return out
}

func newHistoryExportCmd() *cobra.Command {
	var out, title string
	cmd := &cobra.Command{
		Use:               "export <doc>",
		Short:             "Export the conversation with a document as HTML",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			d, err := historyDocument(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			msgs, err := app.Chat.History(cmd.Context(), d.ID, 0)
			if err != nil {
				return err
			}
			path, err := export.ToFile(out, title, d, msgs)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d messages to %s\n", len(msgs), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "file to write (default <name>-chat-<time>.html)")
	cmd.Flags().StringVar(&title, "title", "", "page title (default the document name)")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "clear <doc>",
		Short:             "Delete the local conversation with a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			d, err := historyDocument(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := confirmDelete(cmd, "Clear chat history for "+d.DisplayName()+"?", "The document itself is kept.", yes); err != nil {
				return err
			}
			n, err := app.Chat.Clear(cmd.Context(), d.ID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d messages.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
