// Package orchestration runs one or more π calculators concurrently and
// cross-checks their digit strings. Presentation is injected through the
// ProgressReporter, ResultPresenter and ErrorHandler interfaces.
package orchestration
