package pi

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and looks up calculators by algorithm name.
type CalculatorFactory interface {
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered names in alphabetical order.
	List() []string
	// GetAll returns every registered calculator keyed by name.
	GetAll() map[string]Calculator
	// Register adds or replaces a calculator.
	Register(name string, creator func() coreCalculator) error
}

// DefaultFactory is the thread-safe CalculatorFactory used by the
// application. Calculators are built lazily and cached.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() coreCalculator
	cache    map[string]Calculator
}

// builtinCreators holds the algorithms compiled into this binary. Files
// behind build tags add to it from init.
var builtinCreators = map[string]func() coreCalculator{
	"parallel":   func() coreCalculator { return &ParallelSplitter{} },
	"sequential": func() coreCalculator { return &SequentialSplitter{} },
}

func registerCalculator(name string, creator func() coreCalculator) {
	builtinCreators[name] = creator
}

// NewDefaultFactory returns a factory pre-populated with the built-in
// algorithms.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() coreCalculator, len(builtinCreators)),
		cache:    make(map[string]Calculator),
	}
	for name, creator := range builtinCreators {
		f.creators[name] = creator
	}
	return f
}

// Register implements CalculatorFactory.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if name == "" {
		return fmt.Errorf("calculator name must not be empty")
	}
	if creator == nil {
		return fmt.Errorf("calculator creator for %q must not be nil", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.cache, name)
	return nil
}

// Get implements CalculatorFactory.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	if calc, ok := f.cache[name]; ok {
		f.mu.RUnlock()
		return calc, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.cache[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown calculator: %q (available: %v)", name, f.listLocked())
	}
	calc := NewCalculator(creator())
	f.cache[name] = calc
	return calc, nil
}

// List implements CalculatorFactory.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listLocked()
}

func (f *DefaultFactory) listLocked() []string {
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll implements CalculatorFactory.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	all := make(map[string]Calculator)
	for _, name := range f.List() {
		if calc, err := f.Get(name); err == nil {
			all[name] = calc
		}
	}
	return all
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewDefaultFactory()
	})
	return globalFactory
}
