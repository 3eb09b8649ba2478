package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quizform/internal/bridge"
	"quizform/internal/wizard"
)

// Form keys posted by the page.
const (
	formAction      = "action"
	formFieldPrefix = "field:"
	formInitData    = "init_data"
	formColorScheme = "color_scheme"
)

const archiveTimeout = 5 * time.Second

// handler serves one quiz definition to many sessions.
type handler struct {
	cfg      Config
	wizard   *wizard.Wizard
	sessions *sessionStore
	metrics  *metrics
	log      logr.Logger
}

// NewHandler builds the HTTP handler for the quiz page and its endpoints.
func NewHandler(cfg Config) (http.Handler, error) {
	policy, ok := wizard.ParsePolicy(string(cfg.Policy))
	if !ok {
		return nil, fmt.Errorf("webapp: unknown policy %q", cfg.Policy)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = wizard.DefaultCloseDelay
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	h := &handler{
		cfg:     cfg,
		wizard:  wizard.New(cfg.Questions, wizard.Options{Policy: policy, Now: cfg.Now}),
		metrics: newMetrics(cfg.Registry),
		log:     cfg.Logger.WithName("webapp"),
	}
	h.sessions = newSessionStore(cfg.SessionTTL, cfg.Now, h.metrics.setSessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Get("/", h.serveIndex)
	r.Post("/dispatch", h.serveDispatch)
	r.Post("/session", h.serveSession)
	r.Post("/theme", h.serveTheme)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", serveHealth)
	return r, nil
}

// serveIndex renders the current page of the caller's session.
func (h *handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	view := sess.controller.View()
	calls := sess.host.Drain()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	page := pageData{View: view, Calls: calls, Synced: sess.synced.Load()}
	if err := renderPage(page).Render(r.Context(), w); err != nil {
		h.log.Error(err, "render page", "session", sess.id)
	}
}

// serveDispatch applies posted field values, then the posted action.
func (h *handler) serveDispatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := h.session(w, r)
	view := sess.controller.View()

	action, err := parseAction(view, r.PostForm.Get(formAction))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, field := range view.Fields {
		values, posted := r.PostForm[formFieldPrefix+field.ID]
		if !posted || len(values) == 0 || values[0] == field.Value {
			continue
		}
		sess.controller.Dispatch(wizard.SetField(field.QuestionID, field.ID, values[0]))
	}
	if action != nil {
		sess.controller.Dispatch(*action)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// serveSession records the identity and theme the page read from the host.
func (h *handler) serveSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := h.session(w, r)
	if raw := r.PostForm.Get(formInitData); raw != "" {
		user, err := h.identify(raw)
		if err != nil {
			h.log.Error(err, "initData rejected", "session", sess.id)
		}
		sess.host.SetUser(user)
	}
	sess.synced.Store(true)
	h.applyTheme(sess, r.PostForm.Get(formColorScheme))
	w.WriteHeader(http.StatusNoContent)
}

// serveTheme forwards a host themeChanged event.
func (h *handler) serveTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := h.session(w, r)
	h.applyTheme(sess, r.PostForm.Get(formColorScheme))
	w.WriteHeader(http.StatusNoContent)
}

func serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (h *handler) applyTheme(sess *session, scheme string) {
	sess.host.SetColorScheme(scheme)
	sess.host.Emit(bridge.EventThemeChanged)
}

// identify extracts the user from initData, verifying it when a bot token
// is configured. A rejected initData yields no user.
func (h *handler) identify(raw string) (*bridge.User, error) {
	if h.cfg.BotToken == "" {
		data, err := bridge.ParseInitData(raw)
		if err != nil {
			return nil, err
		}
		return data.User, nil
	}
	data, err := bridge.VerifyInitData(raw, h.cfg.BotToken, h.cfg.InitDataMaxAge, h.cfg.Now())
	if err != nil {
		return nil, err
	}
	return data.User, nil
}

// session returns the caller's session, creating one (and its cookie) when
// the cookie is missing or stale.
func (h *handler) session(w http.ResponseWriter, r *http.Request) *session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := h.sessions.get(cookie.Value); ok {
			return sess
		}
	}
	sess := h.sessions.create(h.newSession)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.V(1).Info("session opened", "session", sess.id)
	return sess
}

func (h *handler) newSession(id string) *session {
	host := bridge.NewScript()
	log := h.log.WithValues("session", id)
	controller := wizard.NewController(h.wizard, wizard.ControllerOptions{
		Host:       host,
		Log:        log,
		CloseDelay: h.cfg.CloseDelay,
		OnCommand: func(cmd wizard.Command) {
			h.metrics.recordCommand(cmd.Kind.String())
		},
		OnSubmit: func(payload wizard.Payload, delivery wizard.Delivery) {
			h.metrics.recordSubmission(delivery.String())
			h.archive(id, payload, delivery)
		},
	})
	controller.Start()
	return &session{controller: controller, host: host}
}

// archive stores the payload. Failures are logged; the submission stands.
func (h *handler) archive(sessionID string, payload wizard.Payload, delivery wizard.Delivery) {
	if h.cfg.Archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	id, err := h.cfg.Archive.Record(ctx, sessionID, delivery, payload)
	if err != nil {
		h.log.Error(err, "archive submission", "session", sessionID)
		return
	}
	h.log.V(1).Info("submission archived", "session", sessionID, "id", id)
}

// logRequests logs each request at V(1) with its status.
func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.V(1).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

var errUnknownAction = errors.New("unknown action")

// parseAction maps the posted action to a command. An empty action or
// "update" only applies the field values.
func parseAction(view wizard.View, action string) (*wizard.Command, error) {
	var cmd wizard.Command
	switch action = strings.TrimSpace(action); {
	case action == "" || action == "update":
		return nil, nil
	case action == "advance":
		cmd = wizard.Advance()
	case action == "back":
		cmd = wizard.Back()
	case action == "open-image":
		cmd = wizard.OpenImage()
	case action == "close-image":
		cmd = wizard.CloseImage()
	case strings.HasPrefix(action, "clear:"):
		questionID := ""
		if len(view.Fields) > 0 {
			questionID = view.Fields[0].QuestionID
		}
		cmd = wizard.ClearField(questionID, strings.TrimPrefix(action, "clear:"))
	case strings.HasPrefix(action, "key:"):
		cmd = wizard.KeyPress(strings.TrimPrefix(action, "key:"))
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownAction, action)
	}
	return &cmd, nil
}
