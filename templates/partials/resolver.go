// Package partials renders the fragments htmx swaps into the page.
package partials

import (
	"context"
	"io"
	"net/url"

	"xhs-resolver/internal/domain"
	"xhs-resolver/templates/components"

	"github.com/a-h/templ"
)

// PanelID is the element id htmx targets when swapping the panel.
const PanelID = "resolver"

// Panel is the data behind the resolver panel.
type Panel struct {
	State domain.State
	// ErrorMessage is the translated State.Err.
	ErrorMessage string
	// JustResolved marks the response to a successful resolve, which is
	// the only time auto-download fires. History selection and turning
	// the toggle on never trigger it.
	JustResolved bool
	// T looks up UI copy.
	T func(key string) string
}

// Msg looks up key, or returns it unchanged without a translator.
func (p Panel) Msg(key string) string {
	if p.T == nil {
		return key
	}
	return p.T(key)
}

// DownloadPath is the route serving the image for traceID.
func DownloadPath(traceID string) string {
	return "/download/" + url.PathEscape(traceID)
}

// HistoryPath is the route selecting a history entry.
func HistoryPath(traceID string) string {
	return "/history/" + url.PathEscape(traceID)
}

// ResolverPanel renders the input form, the current result, the
// auto-download toggle and the history list.
func ResolverPanel(p Panel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := components.NewHTML(w)
		target := "#" + PanelID

		h.Raw(`<section class="resolver"`)
		h.Attr("id", PanelID)
		h.Raw(`>`)

		// Input form
		h.Raw(`<form class="resolve-form" method="post" action="/resolve" hx-post="/resolve"`)
		h.Attr("hx-target", target)
		h.Raw(` hx-swap="outerHTML"><label for="url">`)
		h.Text(p.Msg("input_label"))
		h.Raw(`</label><textarea id="url" name="url" rows="3" hx-post="/input" hx-trigger="keyup changed delay:300ms" hx-swap="none"`)
		h.Attr("placeholder", p.Msg("input_placeholder"))
		h.Raw(`>`)
		h.Text(p.State.Input)
		h.Raw(`</textarea><div class="actions"><button type="submit" class="primary">`)
		h.Text(p.Msg("resolve"))
		h.Raw(`</button></div></form>`)

		h.Raw(`<div class="secondary-actions">`)
		h.Render(ctx, components.PostButton("/clear", target, p.Msg("clear"), "secondary"))
		h.Render(ctx, components.PostButton("/example", target, p.Msg("sample"), "secondary"))
		h.Raw(`</div>`)

		h.Render(ctx, autoDownloadToggle(p, target))
		h.Render(ctx, components.ErrorMessage(p.ErrorMessage))

		if r := p.State.Result; r != nil {
			h.Render(ctx, resultCard(p, *r))
		}

		h.Render(ctx, historyList(p, target))

		h.Raw(`</section>`)
		return h.Err()
	})
}

func autoDownloadToggle(p Panel, target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := components.NewHTML(w)
		h.Raw(`<form class="toggle" method="post" action="/settings/auto-download" hx-post="/settings/auto-download" hx-trigger="change"`)
		h.Attr("hx-target", target)
		h.Raw(` hx-swap="outerHTML"><label><input type="checkbox" name="enabled" value="true"`)
		h.Flag("checked", p.State.Settings.AutoDownload)
		h.Raw(`> `)
		h.Text(p.Msg("auto_download"))
		h.Raw(`</label><noscript><button type="submit">`)
		h.Text(p.Msg("save"))
		h.Raw(`</button></noscript></form>`)
		return h.Err()
	})
}

func resultCard(p Panel, r domain.ResolutionResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := components.NewHTML(w)
		download := DownloadPath(r.TraceID)

		h.Raw(`<div class="result"><dl><dt>`)
		h.Text(p.Msg("trace_id"))
		h.Raw(`</dt><dd><code class="trace-id">`)
		h.Text(r.TraceID)
		h.Raw(`</code></dd><dt>`)
		h.Text(p.Msg("hd_url"))
		h.Raw(`</dt><dd><input id="hd-url" type="text" readonly`)
		h.Attr("value", r.HDURL)
		h.Raw(`></dd></dl><div class="actions">`)
		h.Render(ctx, components.CopyButton("#hd-url", p.Msg("copy"), p.Msg("copied")))
		h.Raw(`<a class="download" target="_blank" rel="noopener"`)
		h.URLAttr("href", download)
		h.Raw(`>`)
		h.Text(p.Msg("download"))
		h.Raw(`</a><a class="open" target="_blank" rel="noopener noreferrer"`)
		h.URLAttr("href", r.HDURL)
		h.Raw(`>`)
		h.Text(p.Msg("open"))
		h.Raw(`</a></div><img class="preview" loading="lazy" referrerpolicy="no-referrer"`)
		h.URLAttr("src", r.HDURL)
		h.Attr("alt", r.TraceID)
		h.Raw(`>`)

		if p.JustResolved && p.State.Settings.AutoDownload {
			h.Raw(`<a class="auto-download" data-auto-download hidden target="_blank" rel="noopener"`)
			h.URLAttr("href", download)
			h.Raw(`></a>`)
		}

		h.Raw(`</div>`)
		return h.Err()
	})
}

func historyList(p Panel, target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := components.NewHTML(w)
		h.Raw(`<div class="history"><h2>`)
		h.Text(p.Msg("history"))
		h.Raw(`</h2>`)

		if len(p.State.History) == 0 {
			h.Raw(`<p class="empty">`)
			h.Text(p.Msg("history_empty"))
			h.Raw(`</p></div>`)
			return h.Err()
		}

		h.Raw(`<ol>`)
		for _, e := range p.State.History {
			current := p.State.Result != nil && p.State.Result.TraceID == e.TraceID
			h.Raw(`<li`)
			h.Flag(`class="current"`, current)
			h.Raw(`>`)
			h.Render(ctx, components.PostButton(HistoryPath(e.TraceID), target, e.TraceID, "history-entry"))
			h.Raw(`<time`)
			h.Attr("datetime", e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
			h.Raw(`>`)
			h.Text(e.CreatedAt.Format("2006-01-02 15:04"))
			h.Raw(`</time></li>`)
		}
		h.Raw(`</ol>`)
		h.Render(ctx, components.PostButton("/history/clear", target, p.Msg("clear_history"), "secondary"))
		h.Raw(`</div>`)
		return h.Err()
	})
}
