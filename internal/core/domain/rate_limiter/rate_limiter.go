package ratelimiter

import (
	"context"
	"errors"
	"time"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

type Interval struct {
	name     string
	duration time.Duration
}

var (
	Minute = Interval{name: "m", duration: time.Minute}
	Hour   = Interval{name: "h", duration: time.Hour}
)

func (i Interval) Duration() time.Duration {
	return i.duration
}

// Bucket returns the fixed window that contains the given moment,
// e.g. "h17" for any moment between 17:00 and 17:59.
func (i Interval) Bucket(at time.Time) string {
	switch i {
	case Minute:
		return i.name + at.Format("1504")
	case Hour:
		return i.name + at.Format("15")
	default:
		panic("invalid rate limiting interval")
	}
}

type Limit struct {
	Value    uint16
	Interval Interval
}

type Result struct {
	IsAllowed bool
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed() Result {
	return Result{IsAllowed: false}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}
