package source

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/graph"
	"github.com/matzehuels/netscope/pkg/observability"
)

// Reference prefixes.
const (
	PrefixFile  = "file:"
	PrefixMongo = "mongo:"
)

// Source fetches a graph document from one kind of backend.
type Source interface {
	// Kind names the backend ("file", "http", "mongo").
	Kind() string

	// Open fetches the document at ref. ref has its prefix removed.
	Open(ctx context.Context, ref string) (graph.Document, error)
}

// Entry is a named network in the catalog.
type Entry struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// ResolverOptions configures a Resolver. Nil sources disable their kind,
// except File which defaults to a FileSource.
type ResolverOptions struct {
	File    Source
	HTTP    Source
	Mongo   Source
	Catalog []Entry
	Logger  *log.Logger
}

// Resolver picks a Source by reference prefix and resolves catalog names.
type Resolver struct {
	file, http, mongo Source
	catalog           []Entry
	logger            *log.Logger
}

// NewResolver creates a resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	if opts.File == nil {
		opts.File = FileSource{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Resolver{
		file:    opts.File,
		http:    opts.HTTP,
		mongo:   opts.Mongo,
		catalog: opts.Catalog,
		logger:  opts.Logger,
	}
}

// Catalog returns the configured networks in configuration order.
func (r *Resolver) Catalog() []Entry {
	return append([]Entry(nil), r.catalog...)
}

// Lookup returns the catalog entry called name.
func (r *Resolver) Lookup(name string) (Entry, bool) {
	for _, e := range r.catalog {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Expand returns the source reference for ref: the catalog entry's source
// if ref names one, otherwise ref itself.
func (r *Resolver) Expand(ref string) string {
	if e, ok := r.Lookup(ref); ok {
		return e.Source
	}
	return ref
}

// Open resolves ref and fetches the document. Documents without a name are
// named after the catalog entry or the file they came from.
func (r *Resolver) Open(ctx context.Context, ref string) (graph.Document, error) {
	if strings.TrimSpace(ref) == "" {
		return graph.Document{}, errors.New(errors.ErrCodeInvalidSource, "empty network reference")
	}

	name := ""
	if e, ok := r.Lookup(ref); ok {
		name, ref = e.Name, e.Source
	}

	src, key, err := r.route(ref)
	if err != nil {
		return graph.Document{}, err
	}

	start := time.Now()
	observability.Load().OnFetchStart(ctx, src.Kind(), key)
	doc, err := src.Open(ctx, key)
	observability.Load().OnFetchComplete(ctx, src.Kind(), key, len(doc.Nodes), time.Since(start), err)
	if err != nil {
		return graph.Document{}, err
	}

	if doc.Name == "" {
		doc.Name = defaultName(name, src.Kind(), key)
	}
	r.logger.Debug("fetched document", "kind", src.Kind(), "ref", key, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc, nil
}

func (r *Resolver) route(ref string) (Source, string, error) {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if r.http == nil {
			return nil, "", errors.New(errors.ErrCodeUnsupported, "http sources are disabled")
		}
		return r.http, ref, nil
	case strings.HasPrefix(ref, PrefixMongo):
		if r.mongo == nil {
			return nil, "", errors.New(errors.ErrCodeUnsupported, "mongo source is not configured")
		}
		name := strings.TrimPrefix(ref, PrefixMongo)
		if name == "" {
			return nil, "", errors.New(errors.ErrCodeInvalidSource, "mongo reference without a name")
		}
		return r.mongo, name, nil
	case strings.HasPrefix(ref, PrefixFile):
		return r.file, strings.TrimPrefix(ref, PrefixFile), nil
	default:
		return r.file, ref, nil
	}
}

func defaultName(catalogName, kind, ref string) string {
	if catalogName != "" {
		return catalogName
	}
	if kind == "mongo" {
		return ref
	}
	base := filepath.Base(ref)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// KindOf returns the backend kind a reference routes to.
func KindOf(ref string) string {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return "http"
	case strings.HasPrefix(ref, PrefixMongo):
		return "mongo"
	default:
		return "file"
	}
}
