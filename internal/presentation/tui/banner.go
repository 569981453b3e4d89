package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`       _ _        _            `, "#fde68a"},
	{`   ___(_) |_ _ __(_)_ __   ___ `, "#fcd34d"},
	{`  / __| | __| '__| | '_ \ / _ \`, "#fbbf24"},
	{` | (__| | |_| |  | | | | |  __/`, "#f59e0b"},
	{`  \___|_|\__|_|  |_|_| |_|\___|`, "#d97706"},
}

// PrintBanner writes the Citrine ASCII art banner to w.
func PrintBanner(w io.Writer, p termenv.Profile) {
	// Amber gradient
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
