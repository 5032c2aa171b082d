package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders d in µs below a millisecond, in whole ms
// below a second, and with time.Duration's own format above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}
