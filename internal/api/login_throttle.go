package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// loginThrottle counts failed logins per client address and per username in
// a sliding window. Either counter reaching the limit blocks the attempt.
type loginThrottle struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	failures map[string][]time.Time
	rejected prometheus.Counter
}

func newLoginThrottle(limit int, window time.Duration, rejected prometheus.Counter) *loginThrottle {
	return &loginThrottle{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
		rejected: rejected,
	}
}

type loginAttempt struct {
	keys []string
}

func newLoginAttempt(c *fiber.Ctx, username string) loginAttempt {
	address := strings.TrimSpace(utils.CopyString(c.IP()))
	if address == "" {
		address = "unknown"
	}
	attempt := loginAttempt{keys: []string{"ip:" + address}}

	normalized := strings.ToLower(strings.TrimSpace(username))
	if normalized != "" {
		attempt.keys = append(attempt.keys, "user:"+normalized)
	}
	return attempt
}

func (throttle *loginThrottle) blocked(attempt loginAttempt, now time.Time) bool {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	for _, key := range attempt.keys {
		if len(throttle.recentLocked(key, now)) >= throttle.limit {
			return true
		}
	}
	return false
}

func (throttle *loginThrottle) recordFailure(attempt loginAttempt, now time.Time) {
	throttle.mu.Lock()
	for _, key := range attempt.keys {
		throttle.failures[key] = append(throttle.recentLocked(key, now), now)
	}
	throttle.mu.Unlock()

	if throttle.rejected != nil {
		throttle.rejected.Inc()
	}
}

// recordSuccess clears the username counter only. Failures from the same
// address against other accounts still count.
func (throttle *loginThrottle) recordSuccess(attempt loginAttempt) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	for _, key := range attempt.keys {
		if strings.HasPrefix(key, "user:") {
			delete(throttle.failures, key)
		}
	}
}

func (throttle *loginThrottle) recentLocked(key string, now time.Time) []time.Time {
	values := throttle.failures[key]
	threshold := now.Add(-throttle.window)

	kept := values[:0]
	for _, value := range values {
		if value.After(threshold) {
			kept = append(kept, value)
		}
	}
	if len(kept) == 0 {
		delete(throttle.failures, key)
		return nil
	}
	throttle.failures[key] = kept
	return kept
}
