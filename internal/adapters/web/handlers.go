package web

import (
	"context"
	"errors"
	"net/url"
	"time"

	"xhs-resolver/internal/domain"
	"xhs-resolver/internal/usecases"
	"xhs-resolver/pkg/log"
	"xhs-resolver/templates/pages"
	"xhs-resolver/templates/partials"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
)

// Deps are the use cases and services the handlers drive.
type Deps struct {
	Sessions  *usecases.SessionUseCase
	Resolver  *usecases.ResolveURLUseCase
	Downloads *usecases.DownloadImageUseCase
	Messages  *Messages
	Limiter   *RateLimiter
}

// Options tune handler behaviour.
type Options struct {
	AppName        string
	RequestTimeout time.Duration
}

// Handlers contains the HTTP handlers for the web application.
type Handlers struct {
	Deps
	opts Options
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Deps, opts Options) *Handlers {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Handlers{Deps: deps, opts: opts}
}

// render is a helper to render templ components with the status already
// set on the response.
func render(c *fiber.Ctx, component templ.Component) error {
	status := c.Response().StatusCode()
	return adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))(c)
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// Home renders the resolver page for the session.
func (h *Handlers) Home(c *fiber.Ctx) error {
	state := h.Sessions.Load(sessionID(c), settingsFromCookie(c))
	justResolved := c.Query("resolved") == "1" && state.Result != nil && state.Err == nil
	return h.renderPage(c, h.panel(c, state, justResolved))
}

// Input records the text typed so far.
func (h *Handlers) Input(c *fiber.Ctx) error {
	return h.dispatch(c, domain.TextChanged{Text: c.FormValue("url")})
}

// Resolve resolves the submitted text, or the stored input when the form
// has no url field.
func (h *Handlers) Resolve(c *fiber.Ctx) error {
	var events []domain.Event
	if c.Request().PostArgs().Has("url") {
		events = append(events, domain.TextChanged{Text: c.FormValue("url")})
	}
	events = append(events, domain.ResolveClicked{})

	state := h.Sessions.Dispatch(c.UserContext(), sessionID(c), settingsFromCookie(c), events...)
	resolved := state.Err == nil && state.Result != nil

	if !isHTMX(c) {
		target := "/"
		if resolved {
			target = "/?resolved=1"
		}
		return c.Redirect(target, fiber.StatusSeeOther)
	}
	return render(c, partials.ResolverPanel(h.panel(c, state, resolved)))
}

// ToggleAutoDownload stores the auto-download preference in the session
// and in the long-lived preference cookie.
func (h *Handlers) ToggleAutoDownload(c *fiber.Ctx) error {
	enabled := c.FormValue("enabled") == "true"
	c.Cookie(&fiber.Cookie{
		Name:     domain.AutoDownloadCookie,
		Value:    domain.FormatBool(enabled),
		Path:     "/",
		Expires:  time.Now().Add(domain.PreferenceTTL),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return h.dispatch(c, domain.ToggleChanged{AutoDownload: enabled})
}

// SelectHistory restores a history entry as the current result.
func (h *Handlers) SelectHistory(c *fiber.Ctx) error {
	traceID, err := traceIDParam(c)
	if err != nil {
		return err
	}
	id := sessionID(c)
	settings := settingsFromCookie(c)

	state := h.Sessions.Load(id, settings)
	if _, ok := state.History.Find(traceID); !ok {
		log.GlobalDebugCtx(c.UserContext(), "history entry not found", "trace_id", traceID)
		c.Status(fiber.StatusNotFound)
		p := h.panel(c, state, false)
		p.ErrorMessage = p.Msg(errorKey(domain.ErrHistoryEntryNotFound))
		if isHTMX(c) {
			return render(c, partials.ResolverPanel(p))
		}
		return h.renderPage(c, p)
	}

	return h.dispatch(c, domain.HistorySelected{TraceID: traceID})
}

// ClearHistory empties the session's history.
func (h *Handlers) ClearHistory(c *fiber.Ctx) error {
	return h.dispatch(c, domain.HistoryCleared{})
}

// Clear empties input, result and error.
func (h *Handlers) Clear(c *fiber.Ctx) error {
	return h.dispatch(c, domain.ClearClicked{})
}

// Example fills the input with a known-good thumbnail URL.
func (h *Handlers) Example(c *fiber.Ctx) error {
	return h.dispatch(c, domain.SampleFilled{})
}

// Download serves the HD image as an attachment. When the direct fetch
// is refused or fails the browser is sent to the HD URL instead.
func (h *Handlers) Download(c *fiber.Ctx) error {
	traceID, err := traceIDParam(c)
	if err != nil {
		return err
	}
	if id, ok := domain.ExtractTraceID(traceID); !ok || id != traceID {
		return fiber.NewError(fiber.StatusBadRequest, "invalid trace id")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.opts.RequestTimeout)
	defer cancel()

	if !h.Limiter.Allow(c.IP()) {
		failure := h.Downloads.Fallback(ctx, traceID, domain.ErrRateLimited)
		return c.Redirect(failure.FallbackURL, fiber.StatusFound)
	}

	dl, err := h.Downloads.Execute(ctx, traceID)
	if err != nil {
		var failure *domain.DownloadFailure
		if errors.As(err, &failure) {
			return c.Redirect(failure.FallbackURL, fiber.StatusFound)
		}
		return err
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	c.Attachment(domain.LocalFilename(dl.TraceID))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(dl.Data)
}

// traceIDParam decodes the :traceID segment. Links escape the ID with
// url.PathEscape and Fiber hands params over still escaped.
func traceIDParam(c *fiber.Ctx) (string, error) {
	traceID, err := url.PathUnescape(utils.CopyString(c.Params("traceID")))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid trace id")
	}
	return traceID, nil
}

// resolveResponse is the JSON body of /api/resolve.
type resolveResponse struct {
	OriginalInput string    `json:"original_input"`
	TraceID       string    `json:"trace_id"`
	HDURL         string    `json:"hd_url"`
	Filename      string    `json:"filename"`
	CreatedAt     time.Time `json:"created_at"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIResolve resolves the url query parameter without touching the session.
func (h *Handlers) APIResolve(c *fiber.Ctx) error {
	r, err := h.Resolver.Execute(c.UserContext(), c.Query("url"))
	if err != nil {
		key := errorKey(err)
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrEmptyInput) {
			status = fiber.StatusBadRequest
		}
		locale := h.Messages.Locale(c.Get(fiber.HeaderAcceptLanguage))
		return c.Status(status).JSON(errorResponse{Error: key, Message: h.Messages.Get(locale, key)})
	}

	return c.JSON(resolveResponse{
		OriginalInput: r.OriginalInput,
		TraceID:       r.TraceID,
		HDURL:         r.HDURL,
		Filename:      domain.Filename(r.TraceID),
		CreatedAt:     r.CreatedAt,
	})
}

// Healthz reports liveness.
func (h *Handlers) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// dispatch applies events to the session and answers with the panel for
// htmx or a redirect home for plain form posts.
func (h *Handlers) dispatch(c *fiber.Ctx, events ...domain.Event) error {
	state := h.Sessions.Dispatch(c.UserContext(), sessionID(c), settingsFromCookie(c), events...)
	if !isHTMX(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return render(c, partials.ResolverPanel(h.panel(c, state, false)))
}

func (h *Handlers) panel(c *fiber.Ctx, state domain.State, justResolved bool) partials.Panel {
	tr := h.Messages.Translator(h.Messages.Locale(c.Get(fiber.HeaderAcceptLanguage)))

	var msg string
	if state.Err != nil {
		msg = tr(errorKey(state.Err))
	}
	return partials.Panel{State: state, ErrorMessage: msg, JustResolved: justResolved, T: tr}
}

func (h *Handlers) renderPage(c *fiber.Ctx, p partials.Panel) error {
	title := h.opts.AppName
	if title == "" {
		title = p.Msg("title")
	}
	return render(c, pages.Home(pages.Page{
		Title: title,
		Lang:  h.Messages.Locale(c.Get(fiber.HeaderAcceptLanguage)),
		Panel: p,
	}))
}
