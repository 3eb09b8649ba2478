package question

// Set defines the question set schema loaded from JSON or YAML.
type Set struct {
	Version   int        `json:"version" yaml:"version"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is one page of the quiz: a task, an image and numeric fields.
type Question struct {
	ID       string  `json:"id" yaml:"id"`
	TaskText string  `json:"task" yaml:"task"`
	Image    string  `json:"image" yaml:"image"`
	Prompt   string  `json:"question" yaml:"question"`
	Fields   []Field `json:"fields" yaml:"fields"`
}

// Field is a single numeric input slot within a question.
type Field struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// FieldIndex returns the position of a field within the question, or -1.
func (q Question) FieldIndex(fieldID string) int {
	for i, field := range q.Fields {
		if field.ID == fieldID {
			return i
		}
	}
	return -1
}
