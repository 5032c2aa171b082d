package format

import (
	"fmt"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal integer
// string, preserving a leading minus sign.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(n + n/3 + 1)
	b.WriteString(sign)
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatBytes renders a byte count with binary units ("1.5 MiB").
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// GroupDigits splits a run of fractional digits into blocks of size
// separated by spaces, the customary layout for long expansions.
func GroupDigits(digits string, size int) string {
	if size <= 0 || len(digits) <= size {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/size)
	for i := 0; i < len(digits); i += size {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i:min(i+size, len(digits))])
	}
	return b.String()
}
