//go:build cucumber

package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
)

// TestQuizWizardScenarios runs the quiz wizard feature scenarios.
func TestQuizWizardScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "spec", "features", "quiz-wizard.feature")
	suite := godog.TestSuite{
		Name:                "quiz-wizard",
		ScenarioInitializer: InitializeWizardScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeWizardScenario wires steps for quiz wizard scenarios.
func InitializeWizardScenario(ctx *godog.ScenarioContext) {
	state := &wizardScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a quiz with (\d+) questions of (\d+) fields? each$`, state.givenQuiz)
	ctx.Step(`^the "([^"]+)" visibility policy$`, state.givenPolicy)
	ctx.Step(`^I enter "([^"]*)" on every page and advance$`, state.whenIEnterOnEveryPage)
	ctx.Step(`^I enter "([^"]*)" on page (\d+) and advance$`, state.whenIEnterOnPage)
	ctx.Step(`^I enter "([^"]*)" in field "([^"]+)"$`, state.whenIEnterInField)
	ctx.Step(`^I clear field "([^"]+)"$`, state.whenIClearField)
	ctx.Step(`^I advance$`, state.whenIAdvance)
	ctx.Step(`^exactly (\d+) payloads? (?:is|are) submitted$`, state.thenPayloadCount)
	ctx.Step(`^the payload holds (\d+) questions each with "([^"]+)" equal to (-?[\d.]+)$`, state.thenPayloadHolds)
	ctx.Step(`^the page index is (\d+)$`, state.thenPageIndex)
	ctx.Step(`^the advance button is disabled$`, state.thenButtonDisabled)
	ctx.Step(`^the hint reads "([^"]+)"$`, state.thenHint)
	ctx.Step(`^field "([^"]+)" is absent$`, state.thenFieldAbsent)
	ctx.Step(`^field "([^"]+)" holds (-?[\d.]+)$`, state.thenFieldHolds)
	ctx.Step(`^(\d+) fields? (?:is|are) visible$`, state.thenVisibleFields)
}

// wizardScenarioState holds scenario state for quiz wizard feature tests.
type wizardScenarioState struct {
	questions int
	fields    int
	policy    Policy
	wizard    *Wizard
	state     State
	payloads  []Payload
}

func (s *wizardScenarioState) reset() {
	*s = wizardScenarioState{policy: PolicyProgressive}
}

func (s *wizardScenarioState) rebuild() {
	s.wizard = newTestWizard(s.questions, s.fields, s.policy)
	s.state = s.wizard.Initial()
	s.payloads = nil
}

func (s *wizardScenarioState) dispatch(cmd Command) {
	var effects []Effect
	s.state, effects = s.wizard.Dispatch(s.state, cmd)
	s.payloads = append(s.payloads, submissions(effects)...)
}

func (s *wizardScenarioState) questionID() string {
	return fmt.Sprintf("q%d", s.state.Page+1)
}

func (s *wizardScenarioState) givenQuiz(questions, fields int) error {
	s.questions = questions
	s.fields = fields
	s.rebuild()
	return nil
}

func (s *wizardScenarioState) givenPolicy(policy string) error {
	parsed, ok := ParsePolicy(policy)
	if !ok {
		return fmt.Errorf("unknown policy %q", policy)
	}
	s.policy = parsed
	s.rebuild()
	return nil
}

// fillPage enters raw in every field of the current page, in order.
func (s *wizardScenarioState) fillPage(raw string) {
	for i := 1; i <= s.fields; i++ {
		s.dispatch(SetField(s.questionID(), fmt.Sprintf("f%d", i), raw))
	}
}

func (s *wizardScenarioState) whenIEnterOnEveryPage(raw string) error {
	for page := 0; page < s.questions; page++ {
		s.fillPage(raw)
		s.dispatch(Advance())
	}
	return nil
}

func (s *wizardScenarioState) whenIEnterOnPage(raw string, page int) error {
	if s.state.Page != page-1 {
		return fmt.Errorf("expected to be on page %d, on page %d", page, s.state.Page+1)
	}
	s.fillPage(raw)
	s.dispatch(Advance())
	return nil
}

func (s *wizardScenarioState) whenIEnterInField(raw, field string) error {
	s.dispatch(SetField(s.questionID(), field, raw))
	return nil
}

func (s *wizardScenarioState) whenIClearField(field string) error {
	s.dispatch(ClearField(s.questionID(), field))
	return nil
}

func (s *wizardScenarioState) whenIAdvance() error {
	s.dispatch(Advance())
	return nil
}

func (s *wizardScenarioState) thenPayloadCount(count int) error {
	if len(s.payloads) != count {
		return fmt.Errorf("expected %d payloads, got %d", count, len(s.payloads))
	}
	return nil
}

func (s *wizardScenarioState) thenPayloadHolds(questions int, field string, value float64) error {
	if len(s.payloads) == 0 {
		return fmt.Errorf("no payload submitted")
	}
	answers := s.payloads[0].Answers
	if len(answers) != questions {
		return fmt.Errorf("expected %d questions, got %d", questions, len(answers))
	}
	for id, fields := range answers {
		if got, ok := fields[field]; !ok || got != value {
			return fmt.Errorf("question %s: expected %s=%v, got %v", id, field, value, fields)
		}
	}
	return nil
}

func (s *wizardScenarioState) thenPageIndex(page int) error {
	if s.state.Page != page {
		return fmt.Errorf("expected page index %d, got %d", page, s.state.Page)
	}
	return nil
}

func (s *wizardScenarioState) thenButtonDisabled() error {
	if s.wizard.View(s.state).Button.Enabled {
		return fmt.Errorf("expected advance button disabled")
	}
	return nil
}

func (s *wizardScenarioState) thenHint(hint string) error {
	if got := s.wizard.View(s.state).Hint; got != hint {
		return fmt.Errorf("expected hint %q, got %q", hint, got)
	}
	return nil
}

func (s *wizardScenarioState) thenFieldAbsent(field string) error {
	if value, ok := s.state.Answers.Value(s.questionID(), field); ok {
		return fmt.Errorf("expected %s absent, got %v", field, value)
	}
	return nil
}

func (s *wizardScenarioState) thenFieldHolds(field string, raw string) error {
	want, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	value, ok := s.state.Answers.Value(s.questionID(), field)
	if !ok || value != want {
		return fmt.Errorf("expected %s=%v, got %v (set=%v)", field, want, value, ok)
	}
	return nil
}

func (s *wizardScenarioState) thenVisibleFields(count int) error {
	if got := len(s.wizard.View(s.state).Fields); got != count {
		return fmt.Errorf("expected %d visible fields, got %d", count, got)
	}
	return nil
}
