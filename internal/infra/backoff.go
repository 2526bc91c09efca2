package infra

import "time"

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns the reconnect delay for the given retry count:
// exponential from 1s, capped at 60s. No jitter: replayed runs must not
// diverge on reconnect timing.
func CalculateBackoff(retryCount int) time.Duration {
	delay := backoffBase
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= backoffMax {
			return backoffMax
		}
	}
	return delay
}
