package formatter

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mcncl/jsonview/internal/layout"
	"github.com/mcncl/jsonview/internal/models"
	"github.com/mcncl/jsonview/internal/render"
)

// indentUnit is added per nesting level of the text tree.
const indentUnit = "  "

// Formatter writes pages and presentation trees as indented terminal text
type Formatter struct {
	label  func(string) string
	colors bool
	raw    bool

	heading *color.Color
	muted   *color.Color
	key     *color.Color
	errText *color.Color
	leaf    map[models.Kind]*color.Color
}

// Option configures a Formatter
type Option func(*Formatter)

// WithColors switches ANSI colours on or off
func WithColors(enabled bool) Option {
	return func(f *Formatter) { f.colors = enabled }
}

// WithLabels sets how mapping keys are displayed
func WithLabels(label func(string) string) Option {
	return func(f *Formatter) {
		if label != nil {
			f.label = label
		}
	}
}

// WithRaw appends the raw JSON view to formatted pages
func WithRaw(enabled bool) Option {
	return func(f *Formatter) { f.raw = enabled }
}

// NewFormatter creates a new Formatter instance
func NewFormatter(options ...Option) *Formatter {
	f := &Formatter{
		label:   func(s string) string { return s },
		heading: color.New(color.Bold),
		muted:   color.New(color.FgHiBlack),
		key:     color.New(color.FgCyan),
		errText: color.New(color.FgRed, color.Bold),
		leaf: map[models.Kind]*color.Color{
			models.String:    color.New(color.FgGreen),
			models.Number:    color.New(color.FgMagenta),
			models.Bool:      color.New(color.FgYellow),
			models.Null:      color.New(color.FgHiBlack),
			models.Undefined: color.New(color.FgHiBlack),
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}

	all := []*color.Color{f.heading, f.muted, f.key, f.errText}
	for _, c := range f.leaf {
		all = append(all, c)
	}
	for _, c := range all {
		if f.colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format returns the text rendering of a presentation tree
func (f *Formatter) Format(n render.Node) string {
	return strings.Join(f.lines(n), "\n")
}

// lines renders n without any leading indentation.
func (f *Formatter) lines(n render.Node) []string {
	switch n.Kind {
	case render.List:
		if len(n.Children) == 0 {
			return []string{f.muted.Sprint("[]")}
		}
		var out []string
		for _, item := range n.Children {
			body := f.lines(item.Body())
			out = append(out, f.muted.Sprint("-")+" "+body[0])
			out = append(out, indent(body[1:])...)
		}
		return out
	case render.Block:
		if len(n.Children) == 0 {
			return []string{f.muted.Sprint("{}")}
		}
		var out []string
		for _, section := range n.Children {
			label := f.key.Sprint(f.label(section.Label) + ":")
			body := section.Body()
			bodyLines := f.lines(body)
			if len(bodyLines) == 1 && (body.Kind == render.Leaf || len(body.Children) == 0) {
				out = append(out, label+" "+bodyLines[0])
				continue
			}
			out = append(out, label)
			out = append(out, indent(bodyLines)...)
		}
		return out
	default:
		c, ok := f.leaf[n.Source]
		split := strings.Split(n.Text, "\n")
		if !ok {
			return split
		}
		for i, s := range split {
			split[i] = c.Sprint(s)
		}
		return split
	}
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = indentUnit + l
	}
	return out
}

// FormatPage writes a whole page: title, source, then exactly one of the
// loading notice, the error notice or the panels.
func (f *Formatter) FormatPage(w io.Writer, page layout.Page) error {
	bw := bufio.NewWriter(w)
	var lines []string

	lines = append(lines, f.heading.Sprint(page.Title))
	lines = append(lines, f.muted.Sprint("Fetching data from: ")+page.Source)
	lines = append(lines, "")

	switch {
	case page.ShowsError():
		lines = append(lines, f.errText.Sprint("Error:")+" "+page.Message)
	case page.ShowsLoading():
		lines = append(lines, f.muted.Sprint("Loading…"))
	default:
		for i, p := range page.Panels {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, f.panel(p)...)
		}
		if f.raw && page.Raw != "" {
			lines = append(lines, "", f.heading.Sprint("Raw JSON"))
			lines = append(lines, strings.Split(page.Raw, "\n")...)
		}
	}

	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (f *Formatter) panel(p layout.Panel) []string {
	var out []string
	if p.Heading != "" {
		out = append(out, f.heading.Sprint(p.Heading))
	}
	if p.Title != "" || p.Subtitle != "" {
		header := f.heading.Sprint(p.Title)
		if p.Subtitle != "" {
			header += "  " + f.muted.Sprint(p.Subtitle)
		}
		out = append(out, header)
	}
	if p.Note != "" {
		out = append(out, p.Note)
	}
	if p.Tree != nil {
		out = append(out, indent(f.lines(*p.Tree))...)
	}
	for _, child := range p.Children {
		out = append(out, indent(f.panel(child))...)
	}
	return out
}
