// Package pages renders full HTML documents.
package pages

import (
	"context"
	"io"

	"xhs-resolver/templates/components"
	"xhs-resolver/templates/partials"

	"github.com/a-h/templ"
)

// HTMXSrc is the htmx build the layout loads.
const HTMXSrc = "https://unpkg.com/htmx.org@1.9.12"

// Page is the data behind the home page.
type Page struct {
	Title string
	Lang  string
	Panel partials.Panel
}

// Layout wraps body in the HTML document shell.
func Layout(title, lang string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := components.NewHTML(w)
		h.Raw(`<!DOCTYPE html><html`)
		h.Attr("lang", lang)
		h.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.Text(title)
		h.Raw(`</title><link rel="stylesheet" href="/static/app.css"><script defer`)
		h.Attr("src", HTMXSrc)
		h.Raw(`></script><script defer src="/static/app.js"></script></head><body><main>`)
		h.Render(ctx, body)
		h.Raw(`</main></body></html>`)
		return h.Err()
	})
}

// Home renders the resolver page.
func Home(p Page) templ.Component {
	return Layout(p.Title, p.Lang, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := components.NewHTML(w)
		h.Raw(`<header><h1>`)
		h.Text(p.Title)
		h.Raw(`</h1><p class="subtitle">`)
		h.Text(p.Panel.Msg("subtitle"))
		h.Raw(`</p></header>`)
		h.Render(ctx, partials.ResolverPanel(p.Panel))
		return h.Err()
	}))
}
