package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooks(t *testing.T) {
	ctx := context.Background()

	// Verify no-op hooks don't panic
	var lh LoadHooks = NoopLoadHooks{}
	lh.OnFetchStart(ctx, "file", "net.json")
	lh.OnFetchComplete(ctx, "file", "net.json", 42, time.Second, nil)
	lh.OnFetchComplete(ctx, "http", "https://example.com/net.json", 0, time.Second, errors.New("boom"))

	var ch CacheHooks = NoopCacheHooks{}
	ch.OnCacheHit(ctx, "file")
	ch.OnCacheMiss(ctx, "redis")
	ch.OnCacheSet(ctx, "file", 100)

	var hh HTTPHooks = NoopHTTPHooks{}
	hh.OnRequest(ctx, "GET", "example.com", "/net.json")
	hh.OnResponse(ctx, "GET", "example.com", "/net.json", 200, time.Millisecond)
	hh.OnError(ctx, "GET", "example.com", "/net.json", errors.New("timeout"))

	var sh SessionHooks = NoopSessionHooks{}
	sh.OnSessionStart(ctx, "abc", "mini")
	sh.OnSessionEnd(ctx, "abc", time.Minute)
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	if _, ok := Load().(NoopLoadHooks); !ok {
		t.Error("default Load() should be NoopLoadHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("default Cache() should be NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("default HTTP() should be NoopHTTPHooks")
	}
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("default Session() should be NoopSessionHooks")
	}
}

func TestSetHooks(t *testing.T) {
	defer Reset()

	customLoad := &testLoadHooks{}
	SetLoadHooks(customLoad)
	if Load() != customLoad {
		t.Error("SetLoadHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	customSession := &testSessionHooks{}
	SetSessionHooks(customSession)
	if Session() != customSession {
		t.Error("SetSessionHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Load().(NoopLoadHooks); !ok {
		t.Error("Reset() should restore NoopLoadHooks")
	}
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Reset() should restore NoopSessionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	defer Reset()

	custom := &testLoadHooks{}
	SetLoadHooks(custom)
	SetLoadHooks(nil)
	if Load() != custom {
		t.Error("SetLoadHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	defer Reset()

	h := &testLoadHooks{}
	SetLoadHooks(h)

	Load().OnFetchStart(context.Background(), "file", "a.json")
	Load().OnFetchComplete(context.Background(), "file", "a.json", 10, 0, nil)

	if h.starts != 1 || h.completes != 1 {
		t.Errorf("starts=%d completes=%d, want 1 and 1", h.starts, h.completes)
	}
}

// Test implementations
type testLoadHooks struct {
	NoopLoadHooks
	starts, completes int
}

func (h *testLoadHooks) OnFetchStart(context.Context, string, string) { h.starts++ }
func (h *testLoadHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
	h.completes++
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testSessionHooks struct{ NoopSessionHooks }
