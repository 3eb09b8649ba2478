package wizard

import (
	"fmt"

	"github.com/goccy/go-json"

	"quizform/internal/bridge"
)

// TimestampLayout renders submittedAt as ISO-8601 UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload is the final submission handed to the host bridge.
type Payload struct {
	Answers     AnswerSet    `json:"answers"`
	SubmittedAt string       `json:"submittedAt"`
	User        *bridge.User `json:"user"`
}

// Encode serializes the payload as JSON text.
func (p Payload) Encode() (string, error) {
	if p.Answers == nil {
		p.Answers = AnswerSet{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload parses JSON text produced by Encode.
func DecodePayload(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}
