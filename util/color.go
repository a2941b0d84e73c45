package util

import (
	"os"

	"golang.org/x/term"
)

// Colorizer manages colored CLI output.
type Colorizer struct {
	Enabled bool
}

// NewColorizer creates a new Colorizer instance, detecting if colors should be enabled.
func NewColorizer(forceEnabled bool) *Colorizer {
	enabled := forceEnabled
	if !enabled {
		enabled = term.IsTerminal(int(os.Stdout.Fd()))
	}
	return &Colorizer{Enabled: enabled}
}

// applyColor applies the given ANSI color code if coloring is enabled.
func (c *Colorizer) applyColor(code, text string) string {
	if c == nil || !c.Enabled {
		return text
	}
	return code + text + "\033[0m"
}

// Cyan colors the text cyan.
func (c *Colorizer) Cyan(text string) string {
	return c.applyColor("\033[36m", text)
}

// Green colors the text green.
func (c *Colorizer) Green(text string) string {
	return c.applyColor("\033[32m", text)
}

// Yellow colors the text yellow.
func (c *Colorizer) Yellow(text string) string {
	return c.applyColor("\033[33m", text)
}

// Red colors the text red.
func (c *Colorizer) Red(text string) string {
	return c.applyColor("\033[31m", text)
}

// Bold emphasises the text.
func (c *Colorizer) Bold(text string) string {
	return c.applyColor("\033[1m", text)
}

// Dim dims the text.
func (c *Colorizer) Dim(text string) string {
	return c.applyColor("\033[2m", text)
}
