// Package components holds small reusable templ components and the HTML
// writer the hand-written components share.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup, escaping dynamic text and keeping the first error.
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML wraps w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup as is.
func (h *HTML) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// Text writes escaped text.
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with value escaped.
func (h *HTML) Attr(name, value string) {
	h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// URLAttr writes a URL attribute, replacing unsafe schemes.
func (h *HTML) URLAttr(name, url string) {
	h.Attr(name, string(templ.URL(url)))
}

// Flag writes a boolean attribute when on.
func (h *HTML) Flag(name string, on bool) {
	if on {
		h.Raw(" " + name)
	}
}

// Render writes a child component.
func (h *HTML) Render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Err is the first write error, if any.
func (h *HTML) Err() error {
	return h.err
}
