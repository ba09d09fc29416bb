package page_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/page"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func TestHTTPSource_Fetch(t *testing.T) {
	t.Parallel()

	gotUA := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<ul class="grid"><li class="product-box">x</li></ul>`))
	}))
	t.Cleanup(srv.Close)

	src := page.NewHTTPSource(srv.URL, page.WithUserAgent("test-agent"))
	snap, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-agent", <-gotUA)
	assert.Equal(t, srv.URL, snap.URL)
	assert.False(t, snap.FetchedAt.IsZero())

	doc, err := snap.Document()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeGrid, page.DetectMode(doc))
}

func TestHTTPSource_Status(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := page.NewHTTPSource(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestHTTPSource_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := page.NewHTTPSource(url, page.WithHTTPClient(srv.Client())).Fetch(context.Background())
	require.Error(t, err)
}

func TestStaticSource_Set(t *testing.T) {
	t.Parallel()

	src := page.NewStaticSource("static://page", []byte("<p>a</p>"))

	first, err := src.Fetch(context.Background())
	require.NoError(t, err)

	again, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Hash(), again.Hash())

	src.Set([]byte("<p>b</p>"))
	changed, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash(), changed.Hash())
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<div class="modal-content"></div>`), 0o600))

	snap, err := page.NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file://"+path, snap.URL)

	doc, err := snap.Document()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDetail, page.DetectMode(doc))

	_, err = page.NewFileSource(filepath.Join(t.TempDir(), "missing.html")).Fetch(context.Background())
	require.Error(t, err)
}
