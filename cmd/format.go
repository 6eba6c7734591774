package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
)

// Output formats of the positions table.
const (
	FormatTerm     = "term"     // coloured table
	FormatMarkdown = "markdown" // markdown rendered for the terminal
	FormatRaw      = "raw"      // markdown source
)

var formats = []string{FormatTerm, FormatMarkdown, FormatRaw}

// render returns the table in the given format.
func render(format string, t renderer.Table) (string, error) {
	switch format {
	case FormatTerm:
		return renderer.Terminal(t), nil
	case FormatMarkdown:
		return glamourize(renderer.Markdown(t))
	case FormatRaw:
		return renderer.Markdown(t), nil
	default:
		return "", fmt.Errorf("unknown format %q, expecting one of %q", format, formats)
	}
}

// glamourize renders markdown for the terminal.
func glamourize(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// display writes the positions table of tr followed by its status line, if any.
func display(w io.Writer, tr *tracker.Tracker, format string) error {
	out, err := render(format, renderer.NewTable(tr.Positions()))
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	if s := renderer.Status(tr.Loading(), tr.Err()); s != "" {
		fmt.Fprintln(w, s)
	}
	return nil
}
