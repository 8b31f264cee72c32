package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/internal/render"
)

var renderModes = []string{"plain", "ansi", "html", "markdown", "json"}

func newRenderCmd() *cobra.Command {
	var outputMode string
	var width int
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render answer-style markdown from a file or stdin",
		Long: `Render text the way answers are displayed: paragraphs, bullet and
numbered lists, **bold** and ` + "`code`" + ` spans. Everything else is kept as text.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: noApp(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = getConfig(cmd).GetInt("pretty.width")
			}
			return writeRendered(cmd.OutOrStdout(), string(raw), outputMode, width)
		},
	}
	cmd.Flags().StringVar(&outputMode, "output", "plain", "output: "+strings.Join(renderModes, "|"))
	cmd.Flags().IntVar(&width, "width", 0, "wrap width for ansi output (default pretty.width)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return renderModes, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func writeRendered(w io.Writer, raw, mode string, width int) error {
	blocks := render.Render(raw)
	var out string
	switch strings.ToLower(mode) {
	case "plain":
		out = render.PlainText(blocks)
	case "ansi":
		out = format.DefaultPalette().ANSI(blocks, width)
	case "html":
		out = render.HTML(blocks)
	case "markdown", "md":
		out = render.Markdown(blocks)
	case "json":
		return format.WriteJSONBlocks(w, blocks, true)
	default:
		return fmt.Errorf("invalid --output: %s", mode)
	}
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, strings.TrimRight(out, "\n")+"\n")
	return err
}
