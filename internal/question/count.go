package question

import (
	"errors"
	"fmt"
)

// ExpectedCount is the number of questions a quiz form is built for.
const ExpectedCount = 4

// ErrQuestionCount indicates the set does not hold the expected number of questions.
// It is a warning: the wizard still runs with whatever was provided.
var ErrQuestionCount = errors.New("unexpected number of questions")

// CheckCount reports ErrQuestionCount when the set does not hold exactly want questions.
func CheckCount(set Set, want int) error {
	if got := len(set.Questions); got != want {
		return fmt.Errorf("%w: want %d, got %d", ErrQuestionCount, want, got)
	}
	return nil
}
