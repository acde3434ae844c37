package funplus

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funplus/sdk-go/adapters"
)

type mockCall struct {
	url  string
	body string
}

type mockHTTPAdapter struct {
	mu     sync.Mutex
	calls  []mockCall
	status int
	body   string
	err    error

	// started, when non-nil, receives one value as each request enters.
	started chan struct{}
	// block, when non-nil, stalls each request until closed.
	block chan struct{}
}

func (m *mockHTTPAdapter) Post(url string, body []byte) (*adapters.HTTPResponse, error) {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mockCall{url: url, body: string(body)})
	if m.err != nil {
		return nil, m.err
	}
	status, respBody := m.status, m.body
	if status == 0 {
		status = 200
		respBody = "OK"
	}
	return &adapters.HTTPResponse{Status: status, Body: respBody}, nil
}

func (m *mockHTTPAdapter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockHTTPAdapter) lastCall() mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func TestSignature_MatchesReferenceHMAC(t *testing.T) {
	got := signature("test", 1700000000000, "funplus")

	// Reference computation: the key serves both as HMAC key and as
	// part of the signed message.
	mac := hmac.New(sha256.New, []byte("funplus"))
	mac.Write([]byte("test:1700000000000:funplus"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, got)
}

func TestUploader_RequestShape(t *testing.T) {
	http := &mockHTTPAdapter{}
	u := NewUploader("https://log.example.com/log", "app.core", "secret", http)
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }

	uploaded, err := u.Upload([]string{`{"event":"a"}`, `{"event":"b"}`})
	require.NoError(t, err)
	assert.Equal(t, 2, uploaded)

	call := http.lastCall()
	assert.Equal(t, `{"event":"a"}`+"\n"+`{"event":"b"}`, call.body)

	parsed, err := url.Parse(call.url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(call.url, "https://log.example.com/log?"))
	query := parsed.Query()
	assert.Equal(t, "app.core", query.Get("tag"))
	assert.Equal(t, "1700000000000", query.Get("timestamp"))
	assert.Equal(t, "2", query.Get("num"))
	assert.Equal(t, signature("app.core", 1700000000000, "secret"), query.Get("signature"))
}

func TestUploader_SuccessRequiresStatus200AndOKBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{name: "non-200 status", status: 500, body: "OK"},
		{name: "wrong body", status: 200, body: "ok"},
		{name: "empty body", status: 200, body: ""},
		{name: "network error", err: errors.New("connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			http := &mockHTTPAdapter{status: tt.status, body: tt.body, err: tt.err}
			u := NewUploader("https://log.example.com/log", "tag", "key", http)

			uploaded, err := u.Upload([]string{"e1", "e2"})
			assert.Equal(t, 0, uploaded, "a failed batch is all-or-nothing")
			assert.Error(t, err)
		})
	}
}

func TestUploader_ReportsHTTPError(t *testing.T) {
	http := &mockHTTPAdapter{status: 503, body: "unavailable"}
	u := NewUploader("https://log.example.com/log", "tag", "key", http)

	_, err := u.Upload([]string{"e1"})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.Status)
}

func TestUploader_RejectsEmptyBatch(t *testing.T) {
	http := &mockHTTPAdapter{}
	u := NewUploader("https://log.example.com/log", "tag", "key", http)

	uploaded, err := u.Upload(nil)
	assert.Equal(t, 0, uploaded)
	assert.Error(t, err)
	assert.Equal(t, 0, http.callCount())
}
