// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write to the filesystem.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/ui"
)

// DigitGroupSize is the block size used when printing long expansions.
const DigitGroupSize = 10

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to write the digits to (empty for none).
	OutputFile string
	// Save writes the digits to SaveFileName(digits) in the working
	// directory.
	Save bool
	// Quiet prints only the digit string.
	Quiet bool
	// Verbose prints the full value instead of a truncated preview.
	Verbose bool
	// ShowValue prints the value at all.
	ShowValue bool
}

// SaveFileName is the file --save writes for digits digits.
func SaveFileName(digits int) string {
	return fmt.Sprintf("pi_%d.txt", digits)
}

// Destinations returns the files the result should be written to.
func (c OutputConfig) Destinations(digits int) []string {
	var paths []string
	if c.OutputFile != "" {
		paths = append(paths, c.OutputFile)
	}
	if c.Save {
		if name := SaveFileName(digits); name != c.OutputFile {
			paths = append(paths, name)
		}
	}
	return paths
}

// WriteResultToFile writes value, exactly as computed, to path. Missing
// parent directories are created.
func WriteResultToFile(value, path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DisplayQuietResult prints the bare digit string.
func DisplayQuietResult(out io.Writer, value string) {
	fmt.Fprintln(out, value)
}

// DisplaySaved reports a written file in the original tool's words.
func DisplaySaved(out io.Writer, digits int, path string) {
	fmt.Fprintf(out, "\n%s✓ Pi to %d digits saved to '%s%s%s'.%s\n",
		ui.ColorGreen(), digits, ui.ColorCyan(), path, ui.ColorGreen(), ui.ColorReset())
}

// FormatTruncated shortens a long digit string to its first and last
// DisplayEdges fractional digits.
func FormatTruncated(value string) string {
	if len(value) <= 2+TruncationLimit {
		return value
	}
	frac := value[2:]
	return fmt.Sprintf("%s%s...%s", value[:2], frac[:DisplayEdges], frac[len(frac)-DisplayEdges:])
}

// DisplayResult prints the outcome of a computation. details adds timing and
// digit statistics; showValue prints the digits, truncated unless verbose.
func DisplayResult(value string, digits int, duration time.Duration, verbose, details, showValue bool, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Computed %s%s%s digits of π in %s%s%s.\n",
		ui.ColorMagenta(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset(),
		ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())

	if details {
		displayDetails(value, duration, out)
	}

	if !showValue {
		fmt.Fprintf(out, "Last digits: %s%s%s (use -c to display the value).\n",
			ui.ColorGreen(), value[max(2, len(value)-DisplayEdges):], ui.ColorReset())
		return
	}

	fmt.Fprintf(out, "\nCalculated value:\n")
	if verbose || len(value) <= 2+TruncationLimit {
		fmt.Fprintf(out, "π = %s%s%s\n", ui.ColorGreen(), formatGrouped(value), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "π = %s%s%s (truncated)\n", ui.ColorGreen(), FormatTruncated(value), ui.ColorReset())
	fmt.Fprintf(out, "Tip: use -v to display the full value, or -o FILE to save it.\n")
}

func formatGrouped(value string) string {
	if len(value) <= 2 {
		return value
	}
	return value[:2] + format.GroupDigits(value[2:], DigitGroupSize)
}

// displayDetails prints throughput and the frequency of each decimal digit.
func displayDetails(value string, duration time.Duration, out io.Writer) {
	frac := strings.TrimPrefix(value, "3.")
	fmt.Fprintf(out, "\n%sDetailed result analysis%s\n", ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(out, "  Calculation time: %s\n", format.FormatExecutionDuration(duration))
	if secs := duration.Seconds(); secs > 0 {
		fmt.Fprintf(out, "  Throughput:       %s digits/s\n", format.FormatNumberString(fmt.Sprintf("%.0f", float64(len(frac))/secs)))
	}
	var counts [10]int
	for i := 0; i < len(frac); i++ {
		if c := frac[i]; c >= '0' && c <= '9' {
			counts[c-'0']++
		}
	}
	fmt.Fprintf(out, "  Digit frequency:\n")
	for d, n := range counts {
		share := 0.0
		if len(frac) > 0 {
			share = 100 * float64(n) / float64(len(frac))
		}
		fmt.Fprintf(out, "    %d: %8d (%5.2f%%)\n", d, n, share)
	}
}
