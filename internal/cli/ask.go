package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/docqa/internal/chat"
	"github.com/mithrel/docqa/internal/editor"
	"github.com/mithrel/docqa/internal/present"
	"github.com/mithrel/docqa/pkg/api"
)

// recentInEditor is how many past messages the editor template shows.
const recentInEditor = 4

func newAskCmd() *cobra.Command {
	var outputMode string
	var useEditor bool
	cmd := &cobra.Command{
		Use:   "ask <doc> [question...]",
		Short: "Ask a question about a document",
		Long: `Ask a question about a document and print the answer.

Without a question the text is read from stdin, or an editor is opened when
stdin is a terminal. The exchange is kept in the local history.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeFirstDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			mode, err := parseOutput(cmd, outputMode, false)
			if err != nil {
				return err
			}
			d, err := resolveDocument(ctx, app, args[0])
			if err != nil {
				return err
			}
			if info, err := app.Client.ChatInfo(ctx, d.ID); err == nil && !info.ReadyForChat {
				return fmt.Errorf("%s is still being processed; try again shortly", d.DisplayName())
			}

			question := strings.Join(args[1:], " ")
			switch {
			case useEditor || (question == "" && stdinIsTerminal(cmd)):
				recent, err := app.Chat.History(ctx, d.ID, recentInEditor)
				if err != nil {
					app.Log.Debug("history for editor", zap.Error(err))
				}
				question, err = editor.EditQuestion(d, question, recent)
				if err != nil {
					return err
				}
			case question == "":
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				question = string(b)
			}

			ex, askErr := app.Chat.Ask(ctx, d.ID, question)
			if errors.Is(askErr, chat.ErrEmptyQuestion) || errors.Is(askErr, chat.ErrQuestionTooLong) {
				return askErr
			}
			if ex.Answer.Role == "" {
				return askErr
			}
			opts := presentOptions(app.Cfg, mode, true)
			if err := present.RenderMessages(cmd.OutOrStdout(), d.DisplayName(), []api.Message{ex.Question, ex.Answer}, opts); err != nil {
				return err
			}
			return askErr
		},
	}
	addOutputFlag(cmd, &outputMode, "plain|pretty|json|ndjson")
	cmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "write the question in $EDITOR")
	return cmd
}
