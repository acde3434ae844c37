package funplus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleEvent(name, userID string) Event {
	return Event{Name: name, UserID: userID}
}

func TestSampler_Deterministic(t *testing.T) {
	s := NewSampler(SamplerConfig{SampleRate: 0.5}, "device-1")
	event := sampleEvent("level_up", "u1")

	first := s.ShouldSend(event)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, s.ShouldSend(event))
	}
}

func TestSampler_BlacklistWinsOverWhitelist(t *testing.T) {
	s := NewSampler(SamplerConfig{
		SampleRate:    1.0,
		UserBlacklist: []string{"u1"},
		UserWhitelist: []string{"u1"},
	}, "device-1")

	assert.False(t, s.ShouldSend(sampleEvent("level_up", "u1")))
}

func TestSampler_EitherWhitelistSuffices(t *testing.T) {
	s := NewSampler(SamplerConfig{
		SampleRate:     0.0,
		UserWhitelist:  []string{"u2"},
		EventWhitelist: []string{"e1"},
	}, "device-1")

	assert.True(t, s.ShouldSend(sampleEvent("e1", "u2")), "user whitelist accepts")
	assert.True(t, s.ShouldSend(sampleEvent("e1", "u3")), "event whitelist accepts")
	assert.True(t, s.ShouldSend(sampleEvent("e2", "u2")), "user whitelist accepts regardless of event")
}

func TestSampler_SampleRateGate(t *testing.T) {
	s := NewSampler(SamplerConfig{SampleRate: 1.0}, "device-1")
	assert.True(t, s.ShouldSend(sampleEvent("e1", "u1")), "rate 1.0 accepts everything well-formed")

	// A non-empty device identifier hashes to a strictly positive
	// scalar, so rate 0.0 rejects events that match no whitelist.
	s = NewSampler(SamplerConfig{SampleRate: 0.0}, "device-1")
	assert.False(t, s.ShouldSend(sampleEvent("e1", "u1")))
}

func TestSampler_MalformedEventsRejected(t *testing.T) {
	s := NewSampler(SamplerConfig{SampleRate: 1.0}, "device-1")

	assert.False(t, s.ShouldSend(sampleEvent("", "u1")))
	assert.False(t, s.ShouldSend(sampleEvent("e1", "")))
}

func TestDeviceUniqueValue_Range(t *testing.T) {
	for i := 0; i < 50; i++ {
		v := deviceUniqueValue(fmt.Sprintf("device-%d", i))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, v, deviceUniqueValue(fmt.Sprintf("device-%d", i)), "stable per identifier")
	}
}

func TestDeviceUniqueValue_EmptyIdentifier(t *testing.T) {
	assert.Equal(t, 0.0, deviceUniqueValue(""))
}
