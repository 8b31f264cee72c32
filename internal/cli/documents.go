package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/docqa/internal/client"
	"github.com/mithrel/docqa/internal/util"
	"github.com/mithrel/docqa/internal/wire"
	"github.com/mithrel/docqa/pkg/api"
)

// resolveDocument turns a <doc> argument into a document. Numeric IDs are
// fetched directly; anything else is matched against the document list.
func resolveDocument(ctx context.Context, app *wire.App, arg string) (api.Document, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		d, err := app.Client.GetDocument(ctx, id)
		if err == nil || !client.IsNotFound(err) {
			return d, err
		}
		// a file may be named like a number
	}
	docs, err := fetchAllDocuments(ctx, app.Client)
	if err != nil {
		return api.Document{}, err
	}
	return util.ResolveDocument(arg, docs)
}

// completeDocuments offers document names for <doc> arguments.
func completeDocuments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	v := cmd.Context().Value(appKey)
	if v == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	app := v.(*wire.App)
	docs, err := fetchAllDocuments(cmd.Context(), app.Client)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(docs))
	byName := make(map[string]api.Document, len(docs))
	for _, d := range docs {
		names = append(names, d.DisplayName())
		byName[d.DisplayName()] = d
	}
	out := util.ScoreCompletions(toComplete, names, 20)
	for i, n := range out {
		out[i] = n + "\t#" + strconv.FormatInt(byName[n].ID, 10)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFirstDocument completes only the first positional argument.
func completeFirstDocument(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeDocuments(cmd, args, toComplete)
}
