package webapp

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"

	"quizform/internal/bridge"
	"quizform/internal/wizard"
)

// payloadElementID is the id of the script element carrying the payload.
const payloadElementID = "quiz-payload"

const telegramScriptURL = "https://telegram.org/js/telegram-web-app.js"

// pageData is everything one page render needs.
type pageData struct {
	View   wizard.View
	Calls  []bridge.Call
	Synced bool
}

// renderPage returns the full HTML document for a wizard view.
func renderPage(data pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		view := data.View
		out.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/>`)
		out.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		out.raw(`<title>Quiz</title>`)
		out.raw(`<script src="` + telegramScriptURL + `"></script>`)
		out.raw(`<style>` + pageStyle + `</style></head>`)
		out.raw(`<body data-theme="`)
		out.text(view.Theme)
		out.raw(`">`)
		if err := renderWizard(view).Render(ctx, out); err != nil {
			return err
		}
		if payload, ok := pendingPayload(data.Calls); ok {
			if err := templ.JSONScript(payloadElementID, json.RawMessage(payload)).Render(ctx, out); err != nil {
				return err
			}
		}
		out.raw(`<script>`)
		out.raw(bridgeScript(data))
		out.raw(`</script></body></html>`)
		return out.err
	})
}

// renderWizard renders the quiz form, or the empty state when there are no
// questions.
func renderWizard(view wizard.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		out.raw(`<main class="quiz">`)
		if view.Empty {
			out.raw(`<p class="empty">No questions configured.</p></main>`)
			return out.err
		}
		out.raw(`<p class="progress">`)
		out.text(view.Progress)
		out.raw(`</p><form id="quiz-form" method="post" action="/dispatch">`)
		// Implicit submission (Enter in a field) clicks the first submit button.
		out.raw(`<button type="submit" class="default-action" name="action" value="advance" tabindex="-1" aria-hidden="true"`)
		if !view.Button.Enabled {
			out.raw(` disabled`)
		}
		out.raw(`></button>`)

		out.raw(`<section class="task">`)
		if view.TaskText != "" {
			out.raw(`<p class="task-text">`)
			out.text(view.TaskText)
			out.raw(`</p>`)
		}
		if view.Image != "" {
			out.raw(`<button type="submit" class="thumb" name="action" value="open-image"><img src="`)
			out.text(string(templ.URL(view.Image)))
			out.raw(`" alt="`)
			out.text(view.ImageAlt)
			out.raw(`"/></button>`)
		}
		out.raw(`</section><h2 class="prompt">`)
		out.text(view.Prompt)
		out.raw(`</h2>`)

		for _, field := range view.Fields {
			renderField(out, field, view.Focus == field.ID)
		}

		if view.Hint != "" {
			out.raw(`<p class="hint" role="status">`)
			out.text(view.Hint)
			out.raw(`</p>`)
		}
		out.raw(`<div class="actions">`)
		if view.CanGoBack {
			out.raw(`<button type="submit" name="action" value="back">`)
			out.text(wizard.LabelBack)
			out.raw(`</button>`)
		}
		out.raw(`<button type="submit" class="primary" name="action" value="advance"`)
		if !view.Button.Enabled {
			out.raw(` disabled`)
		}
		out.raw(`>`)
		out.text(view.Button.Label)
		out.raw(`</button></div></form>`)

		if view.Lightbox.Open {
			out.raw(`<div class="lightbox" role="dialog" aria-modal="true"><form method="post" action="/dispatch">`)
			out.raw(`<button type="submit" name="action" value="close-image"><img src="`)
			out.text(string(templ.URL(view.Lightbox.Image)))
			out.raw(`" alt="`)
			out.text(view.Lightbox.Alt)
			out.raw(`"/></button></form></div>`)
		}
		out.raw(`</main>`)
		return out.err
	})
}

func renderField(out *htmlWriter, field wizard.FieldView, focused bool) {
	id := "field-" + field.QuestionID + "-" + field.ID
	out.raw(`<div class="field"><label for="`)
	out.text(id)
	out.raw(`">`)
	out.text(field.Label)
	out.raw(`</label><input type="text" inputmode="decimal" autocomplete="off" id="`)
	out.text(id)
	out.raw(`" name="`)
	out.text(formFieldPrefix + field.ID)
	out.raw(`" value="`)
	out.text(field.Value)
	out.raw(`"`)
	if focused {
		out.raw(` autofocus`)
	}
	out.raw(`/>`)
	if field.Set {
		out.raw(`<button type="submit" class="clear" name="action" value="`)
		out.text("clear:" + field.ID)
		out.raw(`" aria-label="Clear">&times;</button>`)
	}
	out.raw(`</div>`)
}

// pendingPayload returns the data of the last sendData call, if any.
func pendingPayload(calls []bridge.Call) (string, bool) {
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Kind == bridge.CallSendData {
			return calls[i].Data, true
		}
	}
	return "", false
}

// bridgeScript renders the page bridge: replayed host calls, the session
// sync, theme forwarding and form auto-submit on change.
func bridgeScript(data pageData) string {
	var b strings.Builder
	b.WriteString("(() => { const tg = window.Telegram?.WebApp;\n")
	for _, call := range data.Calls {
		if statement := call.Statement(payloadElementID); statement != "" {
			b.WriteString(statement)
			b.WriteString("\n")
		}
	}
	b.WriteString(`const post = (path, body) => fetch(path, { method: "POST", body: new URLSearchParams(body), credentials: "same-origin" });` + "\n")
	if !data.Synced {
		b.WriteString(`post("/session", { init_data: tg?.initData ?? "", color_scheme: tg?.colorScheme ?? "" }).then(() => location.reload());` + "\n")
	}
	b.WriteString(`tg?.onEvent?.("themeChanged", () => post("/theme", { color_scheme: tg.colorScheme ?? "" }).then(() => location.reload()));` + "\n")
	b.WriteString(`const form = document.getElementById("quiz-form");` + "\n")
	b.WriteString(`form?.addEventListener("change", () => form.submit());` + "\n")
	if data.View.Submitted {
		b.WriteString(`if (!tg?.sendData) { const hint = document.querySelector(".hint"); if (hint) hint.textContent = ` + quoteJS(wizard.HintFallback) + `; }` + "\n")
	}
	if data.View.Lightbox.Open {
		b.WriteString(`document.addEventListener("keydown", (e) => { if (e.key === "Escape") post("/dispatch", { action: "key:Escape" }).then(() => location.reload()); });` + "\n")
	}
	b.WriteString("})();")
	return b.String()
}

func quoteJS(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}

// htmlWriter writes markup and escaped text, keeping the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) Write(p []byte) (int, error) {
	if h.err != nil {
		return 0, h.err
	}
	n, err := h.w.Write(p)
	h.err = err
	return n, err
}

func (h *htmlWriter) raw(s string) {
	_, _ = io.WriteString(h, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

const pageStyle = `
body { margin: 0; font-family: system-ui, sans-serif; background: var(--tg-theme-bg-color, #fff); color: var(--tg-theme-text-color, #111); }
body[data-theme="dark"] { background: var(--tg-theme-bg-color, #17212b); color: var(--tg-theme-text-color, #f5f5f5); }
.quiz { max-width: 36rem; margin: 0 auto; padding: 1rem; }
.progress { opacity: .7; font-size: .9rem; }
.default-action { position: absolute; width: 1px; height: 1px; overflow: hidden; clip-path: inset(50%); border: 0; padding: 0; }
.thumb { border: 0; padding: 0; background: none; cursor: zoom-in; }
.thumb img { max-width: 100%; border-radius: .5rem; }
.field { display: flex; flex-wrap: wrap; gap: .5rem; align-items: center; margin: .75rem 0; }
.field label { flex-basis: 100%; }
.field input { flex: 1; font-size: 1rem; padding: .5rem; }
.hint { color: #c0392b; }
.actions { display: flex; gap: .5rem; justify-content: space-between; }
.primary { flex: 1; padding: .75rem; font-size: 1rem; }
.lightbox { position: fixed; inset: 0; background: rgba(0, 0, 0, .85); display: flex; align-items: center; justify-content: center; }
.lightbox button { border: 0; background: none; cursor: zoom-out; }
.lightbox img { max-width: 95vw; max-height: 95vh; }
`
