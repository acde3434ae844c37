package funplus

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Event is one analytics record. Every event carries the mandatory
// envelope fields plus a free-form properties map with device/app
// context and event-specific values.
//
// Events are immutable once constructed: they are serialized to their
// canonical JSON string the moment they enter a buffer, so later
// mutation of shared context never affects queued events.
type Event struct {
	Name        string         `json:"event"`
	DataVersion string         `json:"data_version"`
	Timestamp   string         `json:"ts"`
	AppID       string         `json:"app_id"`
	UserID      string         `json:"user_id"`
	SessionID   string         `json:"session_id"`
	RUMID       string         `json:"rum_id,omitempty"`
	Properties  map[string]any `json:"properties"`
}

// Encode serializes the event to its canonical JSON string.
func (e Event) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeEvent parses a canonical event string back into an Event.
func DecodeEvent(entry string) (Event, error) {
	var e Event
	err := json.Unmarshal([]byte(entry), &e)
	return e, err
}

// nowMillis returns the current time as string-encoded milliseconds
// since epoch, the wire format for the ts field.
func nowMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// millisString formats an explicit timestamp the same way.
func millisString(ms int64) string {
	return strconv.FormatInt(ms, 10)
}
