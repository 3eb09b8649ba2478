package wizard

// CommandKind identifies the type of wizard command.
type CommandKind int

const (
	// CommandSetField stores raw input for a visible field.
	CommandSetField CommandKind = iota
	// CommandClearField clears a visible field.
	CommandClearField
	// CommandAdvance moves to the next page or submits on the last one.
	CommandAdvance
	// CommandBack moves to the previous page.
	CommandBack
	// CommandOpenImage opens the task image lightbox.
	CommandOpenImage
	// CommandCloseImage closes the lightbox.
	CommandCloseImage
	// CommandKeyPress delivers a key press; Escape closes the lightbox.
	CommandKeyPress
	// CommandThemeChanged records the host colour scheme.
	CommandThemeChanged
	// CommandDelivered records where the payload was delivered.
	CommandDelivered
)

// String returns the label used in logs and metrics.
func (k CommandKind) String() string {
	switch k {
	case CommandSetField:
		return "set_field"
	case CommandClearField:
		return "clear_field"
	case CommandAdvance:
		return "advance"
	case CommandBack:
		return "back"
	case CommandOpenImage:
		return "open_image"
	case CommandCloseImage:
		return "close_image"
	case CommandKeyPress:
		return "key_press"
	case CommandThemeChanged:
		return "theme_changed"
	case CommandDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Command is an input to Dispatch.
type Command struct {
	Kind       CommandKind
	QuestionID string
	FieldID    string
	Raw        string
	Key        string
	Scheme     string
	Delivery   Delivery
}

// SetField builds a CommandSetField.
func SetField(questionID, fieldID, raw string) Command {
	return Command{Kind: CommandSetField, QuestionID: questionID, FieldID: fieldID, Raw: raw}
}

// ClearField builds a CommandClearField.
func ClearField(questionID, fieldID string) Command {
	return Command{Kind: CommandClearField, QuestionID: questionID, FieldID: fieldID}
}

// Advance builds a CommandAdvance.
func Advance() Command { return Command{Kind: CommandAdvance} }

// Back builds a CommandBack.
func Back() Command { return Command{Kind: CommandBack} }

// OpenImage builds a CommandOpenImage.
func OpenImage() Command { return Command{Kind: CommandOpenImage} }

// CloseImage builds a CommandCloseImage.
func CloseImage() Command { return Command{Kind: CommandCloseImage} }

// KeyPress builds a CommandKeyPress.
func KeyPress(key string) Command { return Command{Kind: CommandKeyPress, Key: key} }

// ThemeChanged builds a CommandThemeChanged.
func ThemeChanged(scheme string) Command { return Command{Kind: CommandThemeChanged, Scheme: scheme} }

// Delivered builds a CommandDelivered.
func Delivered(delivery Delivery) Command { return Command{Kind: CommandDelivered, Delivery: delivery} }

// EffectKind identifies a side effect requested by a transition.
type EffectKind int

const (
	// EffectRender asks the surface to redraw the page.
	EffectRender EffectKind = iota
	// EffectFocus asks the surface to focus FieldID.
	EffectFocus
	// EffectScrollTop asks the surface to scroll to the top.
	EffectScrollTop
	// EffectSubmit carries the final payload for delivery.
	EffectSubmit
)

// Effect is a side effect for the controller or rendering surface.
type Effect struct {
	Kind    EffectKind
	FieldID string
	Payload *Payload
}
