package main

import (
	"encoding/json"
	"fmt"
	"io"
)

// displayContext carries what rendering helpers need to know about the
// current invocation.
type displayContext struct {
	version string
	color   bool
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func (d displayContext) paint(code, s string) string {
	if !d.color {
		return s
	}
	return code + s + ansiReset
}

func (d displayContext) green(s string) string  { return d.paint(ansiGreen, s) }
func (d displayContext) red(s string) string    { return d.paint(ansiRed, s) }
func (d displayContext) yellow(s string) string { return d.paint(ansiYellow, s) }

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
