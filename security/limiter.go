package security

import "golang.org/x/time/rate"

// Defaults for the outbound send limiter.
const (
	DefaultSendsPerMinute = 10
	DefaultSendBurst      = 10
)

// SendLimiter is a token-bucket guard on outbound send operations. Denied
// sends are not queued; the caller reports a rate-limited failure
// immediately.
type SendLimiter struct {
	limiter *rate.Limiter
}

// NewSendLimiter allows perMinute sustained sends with the given burst
// capacity. Non-positive values fall back to the defaults.
func NewSendLimiter(perMinute, burst int) *SendLimiter {
	if perMinute <= 0 {
		perMinute = DefaultSendsPerMinute
	}
	if burst <= 0 {
		burst = DefaultSendBurst
	}
	return &SendLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

// Allow reports whether another send may proceed now, consuming a token
// when it may.
func (l *SendLimiter) Allow() bool {
	return l.limiter.Allow()
}
