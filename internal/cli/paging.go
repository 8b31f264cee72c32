package cli

import (
	"context"

	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/pkg/api"
)

const defaultPageSize = 100

type documentLister interface {
	ListDocuments(ctx context.Context, skip, limit int) (api.DocumentList, error)
}

// streamDocuments walks the server's document pages starting at skip and
// hands each page to w. maxDocs <= 0 means no limit.
func streamDocuments(ctx context.Context, c documentLister, skip, maxDocs, pageSize int, w format.StreamWriter[api.Document]) error {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	seen := 0
	for {
		limit := pageSize
		if maxDocs > 0 && maxDocs-seen < limit {
			limit = maxDocs - seen
		}
		if limit <= 0 {
			break
		}
		page, err := c.ListDocuments(ctx, skip+seen, limit)
		if err != nil {
			return err
		}
		if len(page.Documents) == 0 {
			break
		}
		if err := w.Write(page.Documents); err != nil {
			return err
		}
		seen += len(page.Documents)
		if len(page.Documents) < limit || (page.Total > 0 && skip+seen >= page.Total) {
			break
		}
	}
	return w.Close()
}

// fetchAllDocuments collects every document the user owns.
func fetchAllDocuments(ctx context.Context, c documentLister) ([]api.Document, error) {
	var col collector
	if err := streamDocuments(ctx, c, 0, 0, defaultPageSize, &col); err != nil {
		return nil, err
	}
	return col.docs, nil
}

type collector struct {
	docs []api.Document
}

func (c *collector) Write(docs []api.Document) error {
	c.docs = append(c.docs, docs...)
	return nil
}

func (c *collector) Close() error { return nil }
