package types

import "time"

// PositiveDuration is a duration known to be strictly positive. Credential
// expiry windows use it so that a zero or negative expiry can never be
// stored.
type PositiveDuration struct {
	d time.Duration
}

// NewPositiveDuration rejects zero and negative durations.
func NewPositiveDuration(d time.Duration) (PositiveDuration, error) {
	if d <= 0 {
		return PositiveDuration{}, ErrNonPositiveDuration
	}
	return PositiveDuration{d: d}, nil
}

// MustPositiveDuration is for durations already known to be positive; it
// panics otherwise.
func MustPositiveDuration(d time.Duration) PositiveDuration {
	pd, err := NewPositiveDuration(d)
	if err != nil {
		panic(err)
	}
	return pd
}

// Get returns the underlying duration.
func (p PositiveDuration) Get() time.Duration {
	return p.d
}
