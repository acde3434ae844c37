package funplus

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/funplus/sdk-go/adapters"
)

// MaxBatchSize is the maximum number of events sent in one upload.
const MaxBatchSize = 100

// Uploader is the stateless batch transport to the log agent. It signs
// each request and performs the network call through an HTTPAdapter;
// requeueing on failure is the caller's responsibility.
//
// Wire protocol, per batch:
//
//	POST {endpoint}?tag={tag}&timestamp={ms}&num={n}&signature={sig}
//	sig  = hex(HMAC_SHA256(key, "{tag}:{ms}:{key}"))
//	body = newline-joined canonical event JSON
//
// Success is HTTP 200 with a response body of exactly "OK". Anything
// else fails the whole batch; batches are never partially acknowledged.
type Uploader struct {
	endpoint string
	tag      string
	key      string
	http     adapters.HTTPAdapter

	// now is stubbed in tests to pin the signed timestamp.
	now func() time.Time
}

// NewUploader creates an uploader for one stream's endpoint/tag/key.
func NewUploader(endpoint, tag, key string, http adapters.HTTPAdapter) *Uploader {
	return &Uploader{
		endpoint: endpoint,
		tag:      tag,
		key:      key,
		http:     http,
		now:      time.Now,
	}
}

// Upload sends one batch. It returns the number of events uploaded:
// the batch size on success, zero on any failure. Expected failure
// modes (timeout, non-200, wrong body) are returned as errors, never
// panics.
func (u *Uploader) Upload(batch []string) (int, error) {
	if len(batch) == 0 {
		return 0, errors.New("empty batch")
	}

	timestamp := u.now().UnixMilli()
	uploadURL := fmt.Sprintf(
		"%s?tag=%s&timestamp=%d&num=%d&signature=%s",
		u.endpoint,
		url.QueryEscape(u.tag),
		timestamp,
		len(batch),
		signature(u.tag, timestamp, u.key),
	)
	body := strings.Join(batch, "\n")

	resp, err := u.http.Post(uploadURL, []byte(body))
	if err != nil {
		return 0, err
	}
	if resp.Status != 200 || resp.Body != "OK" {
		return 0, &HTTPError{Status: resp.Status, Body: resp.Body}
	}
	return len(batch), nil
}

// signature computes the request signature. The key appears both as
// the HMAC key and inside the signed message; the log agent expects
// both.
func signature(tag string, timestamp int64, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	fmt.Fprintf(mac, "%s:%d:%s", tag, timestamp, key)
	return hex.EncodeToString(mac.Sum(nil))
}
