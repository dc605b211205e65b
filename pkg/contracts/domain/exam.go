package domain

// Column names the linking and aggregation logic depends on
const (
	FieldExam      = "exam"
	FieldQNumber   = "q_number"
	FieldDrawing   = "drawing"
	FieldRedrawing = "redrawing"
	FieldCorrect   = "correct"
)

// Response is one student response to an exam question
type Response struct {
	ID         int         `json:"r_id"`
	Source     string      `json:"source"`
	Exam       interface{} `json:"exam"`
	QNumber    interface{} `json:"q_number"`
	Drawing    bool        `json:"drawing"`
	Redrawing  bool        `json:"redrawing"`
	Attributes Record      `json:"attributes,omitempty"`
}

// Field returns the value of any column of the response row by name
func (r *Response) Field(name string) (interface{}, bool) {
	switch name {
	case FieldExam:
		return r.Exam, true
	case FieldQNumber:
		return r.QNumber, true
	case FieldDrawing:
		return r.Drawing, true
	case FieldRedrawing:
		return r.Redrawing, true
	}
	v, ok := r.Attributes[name]
	return v, ok
}

// Question is one exam question together with the responses linked to it
type Question struct {
	ID         int         `json:"q_id"`
	Exam       interface{} `json:"exam"`
	QNumber    interface{} `json:"q_number"`
	Attributes Record      `json:"attributes,omitempty"`

	Responses             []*Response `json:"responses,omitempty"`
	NumberResponses       int         `json:"number_responses"`
	FractionWithDrawing   float64     `json:"fraction_with_drawing"`
	FractionWithRedrawing float64     `json:"fraction_with_redrawing"`
	// FractionCorrect is nil when the response source has no correct column
	FractionCorrect *float64 `json:"fraction_correct,omitempty"`
}

// Field returns the value of any column of the question row by name
func (q *Question) Field(name string) (interface{}, bool) {
	switch name {
	case FieldExam:
		return q.Exam, true
	case FieldQNumber:
		return q.QNumber, true
	}
	v, ok := q.Attributes[name]
	return v, ok
}

// Summary drops the linked responses, keeping only the aggregates
func (q *Question) Summary() *Question {
	s := *q
	s.Responses = nil
	return &s
}
