// Package report renders a relocated layout for humans and tooling.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/buildreloc/internal/relocate"
)

// Format selects the output representation.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown, FormatHTML}
}

// ParseFormat normalizes s. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// Render writes layout to w in the requested format.
func Render(w io.Writer, layout *relocate.Layout, format Format) error {
	if layout == nil {
		return fmt.Errorf("no layout to render")
	}
	switch format {
	case FormatText, "":
		return renderText(w, layout)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(layout)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(layout))
		return err
	case FormatHTML:
		return renderHTML(w, layout)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func renderText(w io.Writer, layout *relocate.Layout) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PROJECT\tGRADLE PATH\tOUTPUT DIRECTORY")
	for _, e := range layout.Entries() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Project, e.GradlePath, e.Dir)
	}
	return tw.Flush()
}

// Markdown returns the layout as a markdown table.
func Markdown(layout *relocate.Layout) string {
	var b strings.Builder
	b.WriteString("| Project | Gradle path | Output directory |\n")
	b.WriteString("|---|---|---|\n")
	for _, e := range layout.Entries() {
		name := escapeCell(e.Project)
		if e.Root {
			name = "**" + name + "**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", name, codeSpan(e.GradlePath), codeSpan(e.Dir.String()))
	}
	return b.String()
}

func renderHTML(w io.Writer, layout *relocate.Layout) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(layout)), &buf); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// codeSpan wraps s in a code span whose fence is longer than any backtick run
// in s. Padding spaces are stripped again by the markdown renderer.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 {
		return fence + " " + escapeCell(s) + " " + fence
	}
	return fence + escapeCell(s) + fence
}
