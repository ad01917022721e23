package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/netscope/pkg/buildinfo"
	"github.com/matzehuels/netscope/pkg/cache"
	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/graph"
	"github.com/matzehuels/netscope/pkg/httputil"
	"github.com/matzehuels/netscope/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// MaxDocumentSize bounds the body of a fetched document.
	MaxDocumentSize = 32 << 20
)

// HTTPOptions configures an HTTPSource. Zero values select defaults.
type HTTPOptions struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration // cache entry lifetime, 0 keeps entries forever

	// Refresh bypasses cached entries but still stores fresh responses.
	Refresh bool

	Attempts int           // default 3
	Delay    time.Duration // first retry delay, default 1s
}

// HTTPSource fetches documents over HTTP(S). Transient failures are retried
// with exponential backoff and successful bodies are cached.
type HTTPSource struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	refresh  bool
	attempts int
	delay    time.Duration
}

// NewHTTPSource creates an HTTP source.
func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: httpTimeout}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}
	return &HTTPSource{
		client:   opts.Client,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.TTL,
		refresh:  opts.Refresh,
		attempts: opts.Attempts,
		delay:    opts.Delay,
	}
}

// Kind implements Source.
func (s *HTTPSource) Kind() string { return "http" }

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, url string) (graph.Document, error) {
	if err := errors.ValidateURL(url); err != nil {
		return graph.Document{}, err
	}

	key := s.keyer.DocumentKey(s.Kind(), url)
	if !s.refresh {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			if doc, err := graph.UnmarshalDocument(data); err == nil {
				return doc, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
	}

	var body []byte
	err := httputil.Retry(ctx, s.attempts, s.delay, func() error {
		var err error
		body, err = s.fetch(ctx, url)
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return graph.Document{}, err
		}
		return graph.Document{}, errors.Wrap(errors.ErrCodeLoad, err, "fetch %s", url)
	}

	doc, err := graph.UnmarshalDocument(body)
	if err != nil {
		return graph.Document{}, err
	}
	_ = s.cache.Set(ctx, key, body, s.ttl)
	return doc, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return nil, errors.Wrap(errors.ErrCodeNetworkNotFound, err, "no document at %s", url)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url))
	}
	if len(data) > MaxDocumentSize {
		return nil, errors.New(errors.ErrCodeLoad, "document at %s exceeds %d bytes", url, MaxDocumentSize)
	}
	return data, nil
}
