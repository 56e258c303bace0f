package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorMessage renders an inline alert. Empty messages render nothing.
func ErrorMessage(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		h := NewHTML(w)
		h.Raw(`<p class="error" role="alert">`)
		h.Text(message)
		h.Raw(`</p>`)
		return h.Err()
	})
}

// CopyButton copies the value of the element matched by target.
func CopyButton(target, label, copiedLabel string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		h.Raw(`<button type="button" class="copy"`)
		h.Attr("data-copy", target)
		h.Attr("data-copied", copiedLabel)
		h.Raw(`>`)
		h.Text(label)
		h.Raw(`</button>`)
		return h.Err()
	})
}

// PostButton is a one-button form, enhanced with htmx to swap target.
func PostButton(action, target, label, class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		h.Raw(`<form method="post"`)
		h.URLAttr("action", action)
		h.URLAttr("hx-post", action)
		h.Attr("hx-target", target)
		h.Raw(` hx-swap="outerHTML"><button type="submit"`)
		h.Attr("class", class)
		h.Raw(`>`)
		h.Text(label)
		h.Raw(`</button></form>`)
		return h.Err()
	})
}
