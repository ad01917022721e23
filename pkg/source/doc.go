// Package source fetches graph documents.
//
// A reference names where a document lives:
//
//	networks/mini.json                  local file
//	file:networks/mini.json             local file, explicit
//	https://example.com/net.json        HTTP(S), retried and cached
//	mongo:mini                          MongoDB document with name "mini"
//
// A [Resolver] maps references, or catalog names configured by the user,
// to the right [Source]:
//
//	r := source.NewResolver(source.ResolverOptions{
//	    HTTP:    source.NewHTTPSource(source.HTTPOptions{Cache: c}),
//	    Catalog: []source.Entry{{Name: "mini", Source: "networks/mini.json"}},
//	})
//	doc, err := r.Open(ctx, "mini")
//
// Every fetch reports to [observability.Load] so hosts can log or meter
// network loads without this package knowing about the backend.
package source
