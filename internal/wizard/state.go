package wizard

// Policy selects which fields of the current question are visible.
type Policy string

const (
	// PolicyProgressive shows fields up to and including the first unfilled one.
	PolicyProgressive Policy = "progressive"
	// PolicyAll shows every field of the current question.
	PolicyAll Policy = "all"
)

// ParsePolicy maps a config value to a Policy. Empty selects PolicyProgressive.
func ParsePolicy(value string) (Policy, bool) {
	switch Policy(value) {
	case "", PolicyProgressive:
		return PolicyProgressive, true
	case PolicyAll:
		return PolicyAll, true
	default:
		return "", false
	}
}

// Delivery records where the final payload went.
type Delivery int

const (
	// DeliveryNone means nothing was delivered yet.
	DeliveryNone Delivery = iota
	// DeliveryHost means the payload was handed to the host bridge.
	DeliveryHost
	// DeliveryFallback means the payload went to the local debug path.
	DeliveryFallback
)

// String returns the label used in logs and metrics.
func (d Delivery) String() string {
	switch d {
	case DeliveryHost:
		return "host"
	case DeliveryFallback:
		return "fallback"
	default:
		return "none"
	}
}

// State is the complete wizard state. Page is 0-based and bounded to the
// question count; Answers holds an entry for every question id.
type State struct {
	Page      int
	Answers   AnswerSet
	Submitted bool
	Delivery  Delivery
	// Focus names the field to focus after the last transition, if any.
	Focus    string
	Lightbox bool
	Theme    string
}
