package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/docqa/pkg/api"
)

var headerLine = "id\tname\tpages\tsize\tuploaded\tstatus\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// DocumentStatus is "ready" once the server has extracted the text.
func DocumentStatus(d api.Document) string {
	if d.ProcessedAt != nil {
		return "ready"
	}
	return "processing"
}

func Pages(d api.Document) string {
	if d.PageCount == nil {
		return "-"
	}
	return strconv.Itoa(*d.PageCount)
}

func Size(d api.Document) string {
	if d.FileSize == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f MB", *d.FileSize)
}

func Uploaded(d api.Document) string {
	if d.UploadedAt.IsZero() {
		return "-"
	}
	return d.UploadedAt.Local().Format("2006-01-02 15:04")
}

func documentLine(d api.Document) string {
	return strconv.FormatInt(d.ID, 10) + "\t" + esc(d.DisplayName()) + "\t" + Pages(d) + "\t" +
		Size(d) + "\t" + Uploaded(d) + "\t" + DocumentStatus(d) + "\n"
}

func WritePlainDocuments(w io.Writer, docs []api.Document, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, d := range docs {
		_, _ = io.WriteString(tw, documentLine(d))
	}
	return tw.Flush()
}

// WritePlainDocument prints one document as key/value lines, with chat
// readiness when info is known.
func WritePlainDocument(w io.Writer, d api.Document, info *api.ChatInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"id", strconv.FormatInt(d.ID, 10)},
		{"name", esc(d.DisplayName())},
		{"stored as", esc(d.Filename)},
		{"pages", Pages(d)},
		{"size", Size(d)},
		{"uploaded", Uploaded(d)},
		{"status", DocumentStatus(d)},
	}
	if d.ProcessedAt != nil {
		rows = append(rows, [2]string{"processed", d.ProcessedAt.Local().Format(time.RFC3339)})
	}
	if info != nil {
		rows = append(rows, [2]string{"ready for chat", strconv.FormatBool(info.ReadyForChat)})
	}
	for _, r := range rows {
		_, _ = io.WriteString(tw, r[0]+":\t"+r[1]+"\n")
	}
	return tw.Flush()
}
