package wizard

import (
	"sync"
	"time"

	"github.com/go-logr/logr"

	"quizform/internal/bridge"
)

// DefaultCloseDelay is how long the host view stays open after sending.
const DefaultCloseDelay = 200 * time.Millisecond

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// Host is the mini-app bridge. Nil runs the wizard outside a host.
	Host bridge.Host
	// Fallback receives the payload when Host is nil or refuses it.
	// Defaults to a bridge.Console writing to Log.
	Fallback   bridge.Fallback
	Log        logr.Logger
	CloseDelay time.Duration
	// AfterFunc schedules the host close. Defaults to time.AfterFunc.
	AfterFunc func(time.Duration, func())
	// OnCommand observes every dispatched command.
	OnCommand func(Command)
	// OnSubmit observes the delivered payload, outside the controller lock.
	OnSubmit func(Payload, Delivery)
}

// Controller owns the single State of one wizard and applies effects that
// leave the state machine: payload delivery and closing the host view.
type Controller struct {
	mu     sync.Mutex
	wizard *Wizard
	state  State
	opts   ControllerOptions
}

// NewController returns a controller positioned on the first page.
func NewController(w *Wizard, opts ControllerOptions) *Controller {
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = DefaultCloseDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if opts.Fallback == nil {
		opts.Fallback = bridge.Console{Log: opts.Log}
	}
	return &Controller{wizard: w, state: w.Initial(), opts: opts}
}

// Wizard returns the static wizard definition.
func (c *Controller) Wizard() *Wizard {
	return c.wizard
}

// Start signals readiness to the host, syncs the theme and subscribes to
// theme changes. Without a host it only returns the first view.
func (c *Controller) Start() View {
	host := c.opts.Host
	if host == nil {
		c.opts.Log.V(1).Info("no host bridge; running standalone")
		return c.View()
	}
	host.Ready()
	host.Expand()
	host.OnEvent(bridge.EventThemeChanged, func() {
		c.Dispatch(ThemeChanged(host.ColorScheme()))
	})
	view, _ := c.Dispatch(ThemeChanged(host.ColorScheme()))
	return view
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	state.Answers = state.Answers.Clone()
	return state
}

// View returns the view of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wizard.View(c.state)
}

// Dispatch applies cmd, delivers a submission if one was produced and
// returns the resulting view with the surface effects.
func (c *Controller) Dispatch(cmd Command) (View, []Effect) {
	c.mu.Lock()
	next, effects := c.wizard.Dispatch(c.state, cmd)
	c.state = next

	surface := make([]Effect, 0, len(effects))
	var submitted *Payload
	for _, effect := range effects {
		if effect.Kind == EffectSubmit && effect.Payload != nil {
			submitted = effect.Payload
			continue
		}
		surface = append(surface, effect)
	}

	delivery := DeliveryNone
	var delivered Payload
	if submitted != nil {
		delivered, delivery = c.deliver(*submitted)
		c.state, _ = c.wizard.Dispatch(c.state, Delivered(delivery))
		c.state.Focus = next.Focus
	}
	view := c.wizard.View(c.state)
	c.mu.Unlock()

	if c.opts.OnCommand != nil {
		c.opts.OnCommand(cmd)
	}
	if submitted != nil && c.opts.OnSubmit != nil {
		c.opts.OnSubmit(delivered, delivery)
	}
	return view, surface
}

// deliver hands the payload to the host, or to the fallback when there is
// no host or the host refuses it.
func (c *Controller) deliver(payload Payload) (Payload, Delivery) {
	host := c.opts.Host
	if host != nil {
		payload.User = host.User()
	}
	data, err := payload.Encode()
	if err != nil {
		c.opts.Log.Error(err, "payload not delivered")
		return payload, DeliveryNone
	}

	if host != nil {
		if err := host.SendData(data); err != nil {
			c.opts.Log.Error(err, "host refused payload; using fallback")
		} else {
			c.scheduleClose(host)
			c.opts.Log.Info("payload sent to host", "bytes", len(data))
			return payload, DeliveryHost
		}
	}

	if err := c.opts.Fallback.Deliver(data); err != nil {
		c.opts.Log.Error(err, "fallback delivery failed")
	}
	return payload, DeliveryFallback
}

func (c *Controller) scheduleClose(host bridge.Host) {
	if closer, ok := host.(bridge.DelayedCloser); ok {
		closer.CloseAfter(c.opts.CloseDelay)
		return
	}
	c.opts.AfterFunc(c.opts.CloseDelay, host.Close)
}
