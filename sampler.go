package funplus

import (
	"crypto/md5"
	"math/bits"
)

// SamplerConfig is the static rule set for event sampling.
type SamplerConfig struct {
	// SampleRate in [0,1]; 1.0 sends everything subject to the lists.
	SampleRate     float64
	EventWhitelist []string
	UserWhitelist  []string
	UserBlacklist  []string
}

// Sampler decides, per event, whether it should be transmitted or
// dropped. The decision is a pure function of the event's name and
// user plus the static config and one per-install scalar, so a given
// event is always accepted or always rejected for the lifetime of the
// install.
//
// Ordered rules, first match wins:
//
//  1. user blacklist   -> reject
//  2. user whitelist   -> accept
//  3. event whitelist  -> accept
//  4. deviceUniqueValue <= SampleRate -> accept, else reject
type Sampler struct {
	sampleRate        float64
	eventWhitelist    map[string]struct{}
	userWhitelist     map[string]struct{}
	userBlacklist     map[string]struct{}
	deviceUniqueValue float64
}

// NewSampler creates a sampler for the given rules and stable
// per-install device identifier.
func NewSampler(config SamplerConfig, deviceID string) *Sampler {
	return &Sampler{
		sampleRate:        config.SampleRate,
		eventWhitelist:    toSet(config.EventWhitelist),
		userWhitelist:     toSet(config.UserWhitelist),
		userBlacklist:     toSet(config.UserBlacklist),
		deviceUniqueValue: deviceUniqueValue(deviceID),
	}
}

// ShouldSend reports whether the event passes the sampling rules.
// Events missing a name or user ID are rejected.
func (s *Sampler) ShouldSend(event Event) bool {
	if event.UserID == "" || event.Name == "" {
		return false
	}
	if _, ok := s.userBlacklist[event.UserID]; ok {
		return false
	}
	if _, ok := s.userWhitelist[event.UserID]; ok {
		return true
	}
	if _, ok := s.eventWhitelist[event.Name]; ok {
		return true
	}
	return s.deviceUniqueValue <= s.sampleRate
}

// DeviceUniqueValue exposes the per-install scalar, mainly for tests.
func (s *Sampler) DeviceUniqueValue() float64 {
	return s.deviceUniqueValue
}

// deviceUniqueValue hashes the device identifier and normalizes the
// count of set bits in the digest by the digest's bit length, yielding
// a stable scalar in [0,1].
func deviceUniqueValue(deviceID string) float64 {
	if deviceID == "" {
		return 0
	}
	digest := md5.Sum([]byte(deviceID))
	sum := 0
	for _, b := range digest {
		sum += bits.OnesCount8(b)
	}
	return float64(sum) / float64(len(digest)*8)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
