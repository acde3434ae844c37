package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetHTTPAdapter_PostSendsRawBody(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotBody        string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, "OK")
	}))
	defer server.Close()

	resp, err := NewNetHTTPAdapter().Post(server.URL, []byte("line1\nline2"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "text/plain; charset=utf-8", gotContentType)
	assert.Equal(t, "line1\nline2", gotBody)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "OK", resp.Body)
}

func TestNetHTTPAdapter_CapturesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "try later")
	}))
	defer server.Close()

	resp, err := NewNetHTTPAdapter().Post(server.URL, []byte("payload"))
	require.NoError(t, err, "a delivered response is not a transport error")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, "try later", resp.Body)
}

func TestNetHTTPAdapter_TruncatesOversizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("x", 10000))
	}))
	defer server.Close()

	resp, err := NewNetHTTPAdapter().Post(server.URL, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Body, 4096)
}

func TestNetHTTPAdapter_UnreachableServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	resp, err := NewNetHTTPAdapter().Post(server.URL, []byte("payload"))
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestNetHTTPAdapter_TimeoutErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		io.WriteString(w, "OK")
	}))
	defer server.Close()

	adapter := NewNetHTTPAdapterWithTimeout(20 * time.Millisecond)
	_, err := adapter.Post(server.URL, []byte("payload"))
	assert.Error(t, err)
}
