package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/docqa/internal/db"
	"github.com/mithrel/docqa/internal/present"
	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/internal/present/tui"
	"github.com/mithrel/docqa/internal/wire"
	"github.com/mithrel/docqa/pkg/api"
)

func newDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc",
		Aliases: []string{"docs", "document"},
		Short:   "Manage uploaded documents",
	}
	cmd.AddCommand(newDocListCmd())
	cmd.AddCommand(newDocShowCmd())
	cmd.AddCommand(newDocInfoCmd())
	cmd.AddCommand(newDocUploadCmd())
	cmd.AddCommand(newDocDeleteCmd())
	return cmd
}

func newDocListCmd() *cobra.Command {
	var outputMode string
	var skip, limit, pageSize int
	var noHeaders bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(cmd, outputMode, true)
			if err != nil {
				return err
			}
			opts := presentOptions(app.Cfg, mode, !noHeaders)
			if mode == present.ModeTUI {
				opts.TUI = dashboardOptions(app, nil)
				opts.TUI.Headers = !noHeaders
				return present.RenderDocuments(cmd.Context(), cmd.OutOrStdout(), nil, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return streamDocuments(cmd.Context(), app.Client, skip, limit, pageSize, present.NewDocumentStream(w, opts))
			})
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|pretty|json|ndjson|tui")
	cmd.Flags().IntVar(&skip, "skip", 0, "skip this many documents")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many documents (0 shows all)")
	cmd.Flags().IntVar(&pageSize, "page-size", defaultPageSize, "documents fetched per request")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	return cmd
}

// dashboardOptions wires the TUI to the backend and local transcript.
func dashboardOptions(app *wire.App, open *api.Document) tui.Options {
	return tui.Options{
		Docs:         app.Client,
		Chat:         app.Chat,
		Forget:       app.Store.ForgetDocument,
		HistoryLimit: app.Cfg.GetInt("history.limit"),
		Open:         open,
		Headers:      true,
	}
}

func newDocShowCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:               "show <doc>",
		Short:             "Show one document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(cmd, outputMode, false)
			if err != nil {
				return err
			}
			d, err := resolveDocument(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			var info *api.ChatInfo
			if ci, err := app.Client.ChatInfo(cmd.Context(), d.ID); err == nil {
				info = &ci
			} else {
				app.Log.Debug("chat info unavailable", zap.Int64("document_id", d.ID), zap.Error(err))
			}
			return present.RenderDocument(cmd.OutOrStdout(), d, info, presentOptions(app.Cfg, mode, true))
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|pretty|json")
	return cmd
}

func newDocInfoCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:               "info <doc>",
		Short:             "Show whether a document is ready for questions",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(cmd, outputMode, false)
			if err != nil {
				return err
			}
			d, err := resolveDocument(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			info, err := app.Client.ChatInfo(cmd.Context(), d.ID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if mode == present.ModeJSON || mode == present.ModeNDJSON {
				return format.WriteJSON(w, info, false)
			}
			pages := "-"
			if info.PageCount != nil {
				pages = fmt.Sprint(*info.PageCount)
			}
			_, _ = fmt.Fprintf(w, "document: %d %s\n", info.DocumentID, info.Filename)
			_, _ = fmt.Fprintf(w, "pages: %s\n", pages)
			_, _ = fmt.Fprintf(w, "processed: %t\n", info.IsProcessed)
			_, _ = fmt.Fprintf(w, "ready for chat: %t\n", info.ReadyForChat)
			if !info.ReadyForChat {
				_, _ = fmt.Fprintln(w, "The document is still being processed; try again shortly.")
			}
			return nil
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|json")
	return cmd
}

func newDocUploadCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "upload <file.pdf>...",
		Short: "Upload PDF documents",
		Args:  cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"pdf", "PDF"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var errs []error
			for _, path := range args {
				if err := uploadOne(cmd, app, path, force); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "upload even if the same file was uploaded before")
	return cmd
}

func uploadOne(cmd *cobra.Command, app *wire.App, path string, force bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if _, err := app.Client.CheckUpload(path); err != nil {
		return err
	}
	digest, err := api.FileDigestPath(path)
	if err != nil {
		return err
	}
	if !force {
		rec, err := app.Store.Uploads.Get(ctx, digest)
		switch {
		case err == nil:
			d, gerr := app.Client.GetDocument(ctx, rec.DocumentID)
			if gerr == nil {
				_, _ = fmt.Fprintf(out, "%s is already uploaded as document %d (%s); use --force to upload again.\n",
					filepath.Base(path), d.ID, d.DisplayName())
				return nil
			}
			app.Log.Debug("cached upload is gone", zap.Int64("document_id", rec.DocumentID), zap.Error(gerr))
		case !errors.Is(err, db.ErrNotFound):
			return err
		}
	}

	res, err := app.Client.UploadDocument(ctx, path)
	if err != nil {
		return err
	}
	if err := app.Store.Uploads.Put(ctx, api.UploadRecord{
		Digest:     digest,
		DocumentID: res.Document.ID,
		Filename:   filepath.Base(path),
		UploadedAt: time.Now().UTC(),
	}); err != nil {
		app.Log.Warn("recording upload", zap.Error(err))
	}
	_, _ = fmt.Fprintf(out, "Uploaded %s as document %d.\n", res.Document.DisplayName(), res.Document.ID)
	if res.Message != "" {
		_, _ = fmt.Fprintln(out, res.Message)
	}
	return nil
}

func newDocDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <doc>...",
		Aliases:           []string{"rm"},
		Short:             "Delete documents and their local history",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			docs := make([]api.Document, 0, len(args))
			for _, a := range args {
				d, err := resolveDocument(ctx, app, a)
				if err != nil {
					return fmt.Errorf("%s: %w", a, err)
				}
				docs = append(docs, d)
			}
			title := fmt.Sprintf("Delete %s?", docs[0].DisplayName())
			if len(docs) > 1 {
				title = fmt.Sprintf("Delete %d documents?", len(docs))
			}
			if err := confirmDelete(cmd, title, "This removes the document from the server and its local chat history.", yes); err != nil {
				return err
			}
			for _, d := range docs {
				msg, err := app.Client.DeleteDocument(ctx, d.ID)
				if err != nil {
					return fmt.Errorf("delete %s: %w", d.DisplayName(), err)
				}
				if err := app.Store.ForgetDocument(ctx, d.ID); err != nil {
					app.Log.Warn("dropping local history", zap.Int64("document_id", d.ID), zap.Error(err))
				}
				if msg == "" {
					msg = "Document deleted successfully"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s: %s\n", d.ID, d.DisplayName(), msg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func confirmDelete(cmd *cobra.Command, title, desc string, yes bool) error {
	if yes {
		return nil
	}
	if !stdinIsTerminal(cmd) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}

