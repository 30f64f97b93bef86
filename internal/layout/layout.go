// Package layout composes rendered value trees into a page. Layouts that know
// the shape of a particular document pick fields out of it and hand each one
// to the generic renderer; the page itself always shows exactly one of a
// loading notice, an error notice or the rendered content.
package layout

import (
	"fmt"

	"github.com/mcncl/jsonview/internal/config"
	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/loader"
	"github.com/mcncl/jsonview/internal/models"
	"github.com/mcncl/jsonview/internal/render"
)

// Layout maps a loaded document onto panels.
type Layout interface {
	Name() string
	Title() string
	Compose(doc models.Value) []Panel
}

// Panel is a hand-authored box on the page. Any field may be empty.
type Panel struct {
	Heading  string
	Title    string
	Subtitle string
	Note     string
	Tree     *render.Node
	Children []Panel
}

// Page is everything a presenter needs to display one load cycle.
type Page struct {
	Title   string
	Source  string
	Phase   loader.Phase
	Message string
	Panels  []Panel
	// Raw is the loaded document as indented JSON, set on success.
	Raw string
}

// ShowsContent reports whether the page displays rendered panels.
func (p Page) ShowsContent() bool { return p.Phase == loader.Success }

// ShowsError reports whether the page displays an error notice.
func (p Page) ShowsError() bool { return p.Phase == loader.Error }

// ShowsLoading reports whether the page displays a loading notice.
func (p Page) ShowsLoading() bool { return p.Phase == loader.Idle || p.Phase == loader.Loading }

// ForName returns the layout registered under name.
func ForName(name string) (Layout, error) {
	switch name {
	case config.LayoutDocument, "":
		return Document{}, nil
	case config.LayoutBooking:
		return Booking{}, nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unknown layout '%s'", name), errors.ErrUnknownLayout)
	}
}

// Build turns a load state into a page. Content and raw data are only
// attached on success, so nothing from an earlier load can linger behind a
// loading or error notice.
func Build(l Layout, source string, state loader.LoadState) (Page, error) {
	page := Page{
		Title:  l.Title(),
		Source: source,
		Phase:  state.Phase,
	}

	switch state.Phase {
	case loader.Error:
		page.Message = state.Message()
	case loader.Success:
		raw, err := state.Value.Indent()
		if err != nil {
			return Page{}, errors.NewRenderError("failed to encode raw data", err)
		}
		page.Panels = l.Compose(state.Value)
		page.Raw = raw
	}
	return page, nil
}

func tree(v models.Value) *render.Node {
	n := render.Render(v)
	return &n
}

// Document shows the whole document as a single tree.
type Document struct{}

func (Document) Name() string  { return config.LayoutDocument }
func (Document) Title() string { return "JSON document" }

func (Document) Compose(doc models.Value) []Panel {
	return []Panel{{Tree: tree(doc)}}
}
