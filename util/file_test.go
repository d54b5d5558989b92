package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nhttp "github.com/chaos-io/gifbg/util/http"
)

func TestIsURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsURL("http://example.com/a.gif"))
	assert.True(t, IsURL("https://example.com/a.gif"))
	assert.False(t, IsURL("a.gif"))
	assert.False(t, IsURL("/tmp/http.gif"))
}

func TestReadSource_Local(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "in.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o644))

	data, err := ReadSource(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("GIF89a"), data)
	assert.True(t, Exists(path))
}

func TestReadSource_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.gif")
	_, err := ReadSource(context.Background(), nil, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotExist)
	assert.False(t, Exists(path))
}

func TestReadSource_URL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer server.Close()

	data, err := ReadSource(context.Background(), nhttp.NewHTTPClient(), server.URL+"/x.gif")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), data)
}

func TestDownload_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := Download(context.Background(), nil, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
