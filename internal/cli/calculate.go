package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/ui"
)

// PrintExecutionConfig prints the digit count, the derived plan, and the
// environment the computation runs in.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %sπ to %d digits%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Digits, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	if plan, err := pi.NewPlan(cfg.Digits, cfg.SafetyFactor); err == nil {
		fmt.Fprintf(out, "Plan: %s%d%s Chudnovsky terms at %s%d%s bits of precision.\n",
			ui.ColorCyan(), plan.Terms, ui.ColorReset(), ui.ColorCyan(), plan.Precision, ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(), cpuFeatures())
	fmt.Fprintf(out, "Parallel split threshold: %s%d%s terms.\n",
		ui.ColorCyan(), cfg.Threshold, ui.ColorReset())
}

// cpuFeatures lists the multiplication-relevant instruction set extensions
// math/big can use on this machine.
func cpuFeatures() string {
	var feats []string
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasADX {
			feats = append(feats, "ADX")
		}
		if cpu.X86.HasBMI2 {
			feats = append(feats, "BMI2")
		}
		if cpu.X86.HasAVX2 {
			feats = append(feats, "AVX2")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			feats = append(feats, "ASIMD")
		}
	}
	if len(feats) == 0 {
		return "generic"
	}
	return strings.Join(feats, ", ")
}

// PrintExecutionMode prints whether one algorithm runs or several are
// compared.
func PrintExecutionMode(calculators []pi.Calculator, out io.Writer) {
	var modeDesc string
	switch len(calculators) {
	case 0:
		modeDesc = "no algorithm selected"
	case 1:
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s algorithm",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	default:
		modeDesc = "Parallel comparison of all algorithms"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
