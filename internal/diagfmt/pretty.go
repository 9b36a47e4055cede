package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyl/internal/diag"
	"pyl/internal/source"
)

type palette struct {
	err, warn, info, note, help, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan),
		help:   color.New(color.FgGreen),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.help, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics dropped\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	fmt.Fprintf(w, "%s: %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		sev.Sprintf("%s %s", d.Severity, d.Code.ID()),
		d.Message)
	writeSnippet(w, fs, d.Primary, opts, pal, sev)

	if opts.ShowNotes {
		if len(d.Fields) > 0 {
			parts := make([]string, len(d.Fields))
			for i, f := range d.Fields {
				parts[i] = f.Key + ": " + f.Value
			}
			fmt.Fprintf(w, "  = %s\n", strings.Join(parts, ", "))
		}
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, note.Span, opts.PathMode), note.Msg)
			writeSnippet(w, fs, note.Span, opts, pal, pal.note)
		}
	}

	fixNum := 0
	for _, fix := range d.Fixes {
		if len(fix.Edits) == 0 {
			fmt.Fprintf(w, "  %s %s\n", pal.help.Sprint("help:"), fix.Title)
			continue
		}
		if !opts.ShowFixes {
			continue
		}
		fixNum++
		fmt.Fprintf(w, "  %s %s\n", pal.help.Sprintf("fix #%d:", fixNum), fix.Title)
		for _, edit := range fix.Edits {
			fmt.Fprintf(w, "    at %s apply=%s\n", location(fs, edit.Span, opts.PathMode), strconv.Quote(edit.NewText))
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintf(w, "      - %s\n", line)
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      + %s\n", line)
			}
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(f, fs, mode), start.Line, start.Col)
}

// writeSnippet prints the span's first line (plus Context lines around it)
// and a caret underline aligned by display width.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette, mark *color.Color) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	lineCount := uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by file size
	// пустая строка после финального \n не нужна как контекст
	if lineCount > start.Line && f.Content[len(f.Content)-1] == '\n' {
		lineCount--
	}

	gutterWidth := len(strconv.FormatUint(uint64(min(last, lineCount)), 10))
	pad := strings.Repeat(" ", gutterWidth)

	for n := first; n <= last && n <= lineCount; n++ {
		text := f.GetLine(n)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), clip(text, opts.Width))
		if n != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(text)) + 1 // #nosec G115
		}
		lead, width := caretGeometry(text, start.Col, endCol)
		underline := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprint(pad+" |"), lead, mark.Sprint(underline))
	}
}

// caretGeometry returns the whitespace that puts a caret under byte column
// startCol, and the display width of [startCol, endCol). Tabs are copied so
// the caret lines up whatever the terminal's tab width is.
func caretGeometry(line string, startCol, endCol uint32) (string, int) {
	from := min(int(startCol)-1, len(line))
	to := min(max(int(endCol)-1, from), len(line))

	var lead strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			lead.WriteByte('\t')
			continue
		}
		lead.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return lead.String(), max(runewidth.StringWidth(line[from:to]), 1)
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "...")
}
