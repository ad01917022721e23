package source

import (
	"context"

	"github.com/matzehuels/netscope/pkg/graph"
)

// FileSource reads documents from the local filesystem.
type FileSource struct{}

// Kind implements Source.
func (FileSource) Kind() string { return "file" }

// Open implements Source.
func (FileSource) Open(ctx context.Context, path string) (graph.Document, error) {
	if err := ctx.Err(); err != nil {
		return graph.Document{}, err
	}
	return graph.ReadDocumentFile(path)
}
