package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/docqa/pkg/api"
)

var (
	ErrNoDocument        = errors.New("no matching document")
	ErrAmbiguousDocument = errors.New("ambiguous document")
)

// ResolveDocument picks a document by numeric ID, by exact file name
// (case-insensitive) or by a unique best fuzzy match on the file name.
func ResolveDocument(arg string, docs []api.Document) (api.Document, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return api.Document{}, ErrNoDocument
	}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		for _, d := range docs {
			if d.ID == id {
				return d, nil
			}
		}
	}

	names := make([]string, len(docs))
	var exact []api.Document
	for i, d := range docs {
		names[i] = d.DisplayName()
		if strings.EqualFold(names[i], arg) {
			exact = append(exact, d)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		return api.Document{}, fmt.Errorf("%w: %d documents are named %q", ErrAmbiguousDocument, len(exact), arg)
	}

	matches := fuzzy.Find(arg, names)
	switch {
	case len(matches) == 0:
		return api.Document{}, fmt.Errorf("%w for %q", ErrNoDocument, arg)
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		cands := make([]string, 0, 5)
		for _, m := range matches {
			if m.Score != matches[0].Score || len(cands) == 5 {
				break
			}
			cands = append(cands, fmt.Sprintf("%d:%s", docs[m.Index].ID, m.Str))
		}
		return api.Document{}, fmt.Errorf("%w %q: %s", ErrAmbiguousDocument, arg, strings.Join(cands, ", "))
	}
	return docs[matches[0].Index], nil
}
