// Package channel implements the delivery transports: rendering a
// notification kind into a concrete message and handing it to the email or
// SMS gateway.
package channel

import "fmt"

// SendError is a delivery failure from a gateway. Permanent failures
// (rejected address, bad content) are not worth retrying; the orchestrator
// checks Retryable before scheduling another attempt.
type SendError struct {
	Channel    string
	StatusCode int
	Message    string
	Permanent  bool
}

func (e *SendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s gateway returned %d: %s", e.Channel, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s gateway: %s", e.Channel, e.Message)
}

func (e *SendError) Retryable() bool { return !e.Permanent }

// permanentStatus reports whether an HTTP status marks the request itself as
// bad. 429 is a throughput ceiling and stays retryable; 5xx is the
// gateway's problem.
func permanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != 429
}
