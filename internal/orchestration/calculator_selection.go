package orchestration

import "github.com/agbru/picalc/internal/pi"

// GetCalculatorsToRun resolves an --algo value against factory. "all"
// returns every registered calculator in name order; an unknown name
// returns nil.
func GetCalculatorsToRun(algo string, factory pi.CalculatorFactory) []pi.Calculator {
	if algo == "all" {
		keys := factory.List()
		calculators := make([]pi.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []pi.Calculator{calc}
	}
	return nil
}
