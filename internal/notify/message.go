package notify

import (
	"fmt"
	"time"
)

// validity renders ttl for a message, e.g. "5 minutes" or "90 seconds".
func validity(ttl time.Duration) string {
	switch {
	case ttl >= time.Minute && ttl%time.Minute == 0:
		return plural(int(ttl/time.Minute), "minute")
	case ttl >= time.Second && ttl%time.Second == 0:
		return plural(int(ttl/time.Second), "second")
	default:
		return ttl.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func codeMessage(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your verification code is %s. It expires in %s.", code, validity(ttl))
}
