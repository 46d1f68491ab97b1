// Package colors provides the output palette of the introspect CLI.
//
// Colors are automatically disabled when stdout is not a terminal (piped or
// redirected to a file). This behavior is provided by the underlying fatih/color
// library and respected by default. Use Init() to override based on CLI flags.
package colors

import (
	"fmt"

	"github.com/fatih/color"
)

// Init allows overriding the auto-detected color setting.
//
//   - forceColor == nil: keep auto-detected value
//   - forceColor == true: force colors on (--color)
//   - forceColor == false: force colors off (--no-color)
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

func Bold() *color.Color  { return color.New(color.Bold) }
func Faint() *color.Color { return color.New(color.Faint) }

// Address colors a runtime address.
func Address() *color.Color { return color.New(color.Faint, color.FgHiBlue) }

// Symbol colors a symbol or class name.
func Symbol() *color.Color { return color.New(color.Bold, color.FgHiGreen) }

// Image colors an image install path.
func Image() *color.Color { return color.New(color.FgHiMagenta) }

// Key colors the label of a key/value line.
func Key() *color.Color { return color.New(color.Bold, color.FgHiBlue) }

// Warn colors a value that is suspicious but not an error.
func Warn() *color.Color { return color.New(color.Bold, color.FgHiYellow) }

// Bad colors an error value.
func Bad() *color.Color { return color.New(color.Bold, color.FgHiRed) }

// Good colors a positive answer.
func Good() *color.Color { return color.New(color.FgHiGreen) }

// Addr formats addr as a fixed-width hex address.
func Addr(addr uint64) string {
	return Address().Sprintf("%#016x", addr)
}

// Bool formats b as a yes/no answer.
func Bool(b bool) string {
	if b {
		return Good().Sprint("yes")
	}
	return Bad().Sprint("no")
}

// KeyValue formats one "key: value" line.
func KeyValue(key string, value any) string {
	return fmt.Sprintf("%s %v", Key().Sprintf("%s:", key), value)
}
