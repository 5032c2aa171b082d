package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/ui"
)

func TestPrintExecutionConfig(t *testing.T) {
	ui.InitTheme(true)
	var buf bytes.Buffer
	cfg := config.AppConfig{
		Digits:       1000,
		Timeout:      time.Minute,
		Threshold:    256,
		SafetyFactor: pi.SafetyFactor,
	}

	PrintExecutionConfig(cfg, &buf)

	output := buf.String()
	for _, want := range []string{
		"Calculating π to 1000 digits",
		"Plan: 72 Chudnovsky terms at 3564 bits",
		"Parallel split threshold: 256 terms",
		"CPU features:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	ui.InitTheme(true)
	factory := pi.GlobalFactory()

	t.Run("Single calculator mode", func(t *testing.T) {
		var buf bytes.Buffer
		calc, err := factory.Get("sequential")
		if err != nil {
			t.Fatal(err)
		}
		PrintExecutionMode([]pi.Calculator{calc}, &buf)
		if !strings.Contains(buf.String(), "Single calculation with the "+calc.Name()) {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("Multiple calculators mode", func(t *testing.T) {
		var buf bytes.Buffer
		calculators := orchestration.GetCalculatorsToRun("all", factory)
		PrintExecutionMode(calculators, &buf)
		if !strings.Contains(buf.String(), "Parallel comparison") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

func TestCPUFeatures(t *testing.T) {
	t.Parallel()
	if cpuFeatures() == "" {
		t.Error("cpuFeatures returned an empty string")
	}
}
