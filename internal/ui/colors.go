package ui

// Color accessors read the active theme, so output follows InitTheme and
// SetTheme without callers holding a Theme value.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorCyan() string      { return GetCurrentTheme().Primary }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorMagenta() string   { return GetCurrentTheme().Info }
func ColorGrey() string      { return GetCurrentTheme().Secondary }
