package ui

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/locale"
)

const sessionName = "timeline-flow"

// panelFields are the control-panel choices persisted in the session cookie.
var panelFields = []string{"resolution", "start", "end", "locale", "timezone"}

// displayZones are the choices offered by the timezone select, mirroring the
// original demo's fixed list plus UTC.
var displayZones = []string{
	"UTC",
	"Europe/Helsinki",
	"Europe/Berlin",
	"Europe/London",
	"America/New_York",
	"America/Los_Angeles",
	"Australia/Sydney",
}

// handlers serves the timeline page, the control panel and the SSE stream.
type handlers struct {
	server *Server
	logger *slog.Logger
}

// pageData feeds the page template: the rendered timeline plus the current
// panel inputs.
type pageData struct {
	View        *TimelineView
	Resolutions []string
	Locales     []string
	Zones       []string
	StartInput  string
	EndInput    string
	LocaleInput string
	ZoneInput   string
	YearRow     bool
	MonthRow    bool
}

// effectiveConfig overlays the session's panel choices onto the loaded
// configuration. Unparseable session values are dropped with a diagnostic so
// a stale cookie can never wedge the page.
func (h *handlers) effectiveConfig(r *http.Request) *config.Config {
	cfg := h.server.baseConfig() // copy
	sess, err := h.server.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("session decode failed, using base config", "error", err)
		return &cfg
	}
	for _, field := range panelFields {
		v, ok := sess.Values[field].(string)
		if !ok || v == "" {
			continue
		}
		switch field {
		case "resolution":
			cfg.Resolution = v
		case "locale":
			cfg.Locale = v
		case "timezone":
			cfg.Timezone = v
		case "start":
			if t, err := config.ParseTimestamp(v); err == nil {
				cfg.Start = t
			} else {
				h.logger.Warn("ignoring session start", "value", v, "error", err)
			}
		case "end":
			if t, err := config.ParseTimestamp(v); err == nil {
				cfg.End = t
			} else {
				h.logger.Warn("ignoring session end", "value", v, "error", err)
			}
		}
	}
	if v, ok := sess.Values["year_row"].(bool); ok {
		cfg.YearRow = v
	}
	if v, ok := sess.Values["month_row"].(bool); ok {
		cfg.MonthRow = v
	}
	return &cfg
}

// page renders the full page: control panel plus timeline.
func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	cfg := h.effectiveConfig(r)
	view := buildTimelineView(cfg, h.logger)

	var locales []string
	for _, tag := range locale.SupportedTags() {
		locales = append(locales, tag.String())
	}

	data := pageData{
		View:        view,
		Resolutions: []string{"hour", "day", "week"},
		Locales:     locales,
		Zones:       displayZones,
		StartInput:  cfg.Start.Format("2006-01-02T15:04"),
		EndInput:    cfg.End.Format("2006-01-02T15:04"),
		LocaleInput: cfg.Locale,
		ZoneInput:   cfg.Timezone,
		YearRow:     cfg.YearRow,
		MonthRow:    cfg.MonthRow,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		h.logger.Error("page render failed", "error", err)
	}
}

// updatePanel stores the submitted control-panel values in the session and
// redirects back to the page.
func (h *handlers) updatePanel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, _ := h.server.sessionStore.Get(r, sessionName)
	for _, field := range panelFields {
		if v := r.PostFormValue(field); v != "" {
			sess.Values[field] = v
		}
	}
	sess.Values["year_row"] = r.PostFormValue("year_row") != ""
	sess.Values["month_row"] = r.PostFormValue("month_row") != ""
	if err := sess.Save(r, w); err != nil {
		h.logger.Error("session save failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// events is the long-lived SSE endpoint. When the configuration file changes
// on disk the watcher broadcasts and every connected page gets its timeline
// fragment re-rendered and patched in place.
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	id, updates := h.server.notifier.Subscribe()
	defer h.server.notifier.Unsubscribe(id)
	h.logger.Debug("sse client connected", "client", id)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("sse client gone", "client", id)
			return
		case <-updates:
			cfg := h.effectiveConfig(r)
			var buf bytes.Buffer
			if err := templates.ExecuteTemplate(&buf, "timeline", buildTimelineView(cfg, h.logger)); err != nil {
				h.logger.Error("fragment render failed", "error", err)
				continue
			}
			if err := sse.PatchElements(buf.String()); err != nil {
				h.logger.Debug("sse patch failed", "client", id, "error", err)
				return
			}
		}
	}
}
