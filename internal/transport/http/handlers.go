package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"rrss/pkg/platform/httputil"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type translationResponse struct {
	Lng       string `json:"lng"`
	Namespace string `json:"ns"`
	Location  string `json:"location"`
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, c := range h.checks {
		if err := c.Health(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}

// HandleListEvents handles GET /events.
func (h *Handler) HandleListEvents(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.events.Summary())
}

// HandleListHandlers handles GET /events/{event}/handlers.
func (h *Handler) HandleListHandlers(w http.ResponseWriter, r *http.Request) {
	keys, err := h.events.HandlerKeys(chi.URLParam(r, "event"))
	if err != nil {
		h.logger.DebugContext(r.Context(), "list handlers failed",
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, keys)
}

// HandleListTranslations handles GET /translations.
func (h *Handler) HandleListTranslations(w http.ResponseWriter, _ *http.Request) {
	metas := h.translations.List()
	out := make([]translationResponse, 0, len(metas))
	for _, m := range metas {
		out = append(out, translationResponse{
			Lng:       m.Lng.String(),
			Namespace: m.Namespace.String(),
			Location:  m.Location.String(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleTranslation handles GET /translations/{lng}/{ns} and answers with
// the resource JSON as stored.
func (h *Handler) HandleTranslation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.translations.Resource(ctx, chi.URLParam(r, "lng"), chi.URLParam(r, "ns"))
	if err != nil {
		h.logger.DebugContext(ctx, "translation lookup failed",
			"request_id", chimw.GetReqID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteRawJSON(w, http.StatusOK, data)
}
