package iot

import (
	"sync"

	"golang.org/x/time/rate"
)

// LimiterSettings describes the token bucket guarding one device's
// ingestion.
type LimiterSettings struct {
	DeviceID uint    `json:"device_id"`
	Rate     float64 `json:"rate"`
	Burst    int     `json:"burst"`
	Custom   bool    `json:"custom"`
}

// RateLimiterStore hands out one limiter per device. Devices start on the
// default bucket until SetLimiter gives them their own.
type RateLimiterStore struct {
	mu           sync.Mutex
	limiters     map[uint]*rate.Limiter
	custom       map[uint]bool
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[uint]*rate.Limiter),
		custom:       make(map[uint]bool),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) limiterLocked(deviceID uint) *rate.Limiter {
	limiter, ok := s.limiters[deviceID]
	if !ok {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[deviceID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) GetLimiter(deviceID uint) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limiterLocked(deviceID)
}

// SetLimiter replaces the device's bucket with a full one.
func (s *RateLimiterStore) SetLimiter(deviceID uint, deviceRate rate.Limit, deviceBurst int) LimiterSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[deviceID] = rate.NewLimiter(deviceRate, deviceBurst)
	s.custom[deviceID] = true
	return s.settingsLocked(deviceID)
}

func (s *RateLimiterStore) Settings(deviceID uint) LimiterSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked(deviceID)
}

func (s *RateLimiterStore) settingsLocked(deviceID uint) LimiterSettings {
	l := s.limiterLocked(deviceID)
	r := float64(l.Limit())
	if l.Limit() == rate.Inf {
		r = 0
	}
	return LimiterSettings{
		DeviceID: deviceID,
		Rate:     r,
		Burst:    l.Burst(),
		Custom:   s.custom[deviceID],
	}
}

// Forget drops any state kept for a deleted device.
func (s *RateLimiterStore) Forget(deviceID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, deviceID)
	delete(s.custom, deviceID)
}

// Allow consumes one token from the device's limiter.
func (s *RateLimiterStore) Allow(deviceID uint) bool {
	return s.GetLimiter(deviceID).Allow()
}
