// Package grading scores a learner's layout against the teacher's reference
// layout. Placeholders are paired by position in the two lists and each pair
// is annotated with a verdict; the annotated copy of the learner's layout is
// the result.
package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imged/layout-service/internal/models"
)

// ErrLayoutMismatch rejects a grading request whose two layouts do not
// carry the same placeholder list shape. Positional pairing is meaningless
// then, so grading fails fast instead of guessing.
var ErrLayoutMismatch = errors.New("student and reference layouts do not match")

// Grade compares the student document against the reference document and
// returns the student document with every placeholder's Eval set. Content
// is compared after trimming whitespace; an empty trimmed student value is
// unanswered, an exact match is correct, anything else is incorrect.
func Grade(student, reference *models.LayoutDocument) (*models.LayoutDocument, error) {
	if student.ImgContainer == nil || reference.ImgContainer == nil {
		return nil, fmt.Errorf("%w: missing image container", ErrLayoutMismatch)
	}
	studentPlhs := student.ImgContainer.Placeholders
	referencePlhs := reference.ImgContainer.Placeholders
	if len(studentPlhs) != len(referencePlhs) {
		return nil, fmt.Errorf("%w: %d placeholders vs %d in reference",
			ErrLayoutMismatch, len(studentPlhs), len(referencePlhs))
	}

	graded := *student
	graded.ImgContainer = &models.ContainerRep{}
	*graded.ImgContainer = *student.ImgContainer
	graded.ImgContainer.Placeholders = make([]models.PlaceholderRep, len(studentPlhs))
	graded.Origin = models.RoleAnswer

	for i, plh := range studentPlhs {
		plh.Eval = evaluate(plh.Content, referencePlhs[i].Content)
		graded.ImgContainer.Placeholders[i] = plh
	}
	return &graded, nil
}

func evaluate(given, expected string) models.Evaluation {
	given = strings.TrimSpace(given)
	expected = strings.TrimSpace(expected)
	switch {
	case given == "":
		return models.EvalUnanswered
	case given == expected:
		return models.EvalCorrect
	default:
		return models.EvalIncorrect
	}
}

// GradeJSON is the wire-level entry point: both layouts arrive as stored
// JSON and the annotated result is returned as JSON.
func GradeJSON(studentJSON, referenceJSON []byte) ([]byte, error) {
	student, err := models.ParseLayoutDocument(studentJSON)
	if err != nil {
		return nil, fmt.Errorf("student layout: %w", err)
	}
	reference, err := models.ParseLayoutDocument(referenceJSON)
	if err != nil {
		return nil, fmt.Errorf("reference layout: %w", err)
	}
	graded, err := Grade(student, reference)
	if err != nil {
		return nil, err
	}
	return graded.Encode()
}

// Summary counts the verdicts of a graded document.
type Summary struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
}

// Summarize tallies the verdicts of an already graded document.
func Summarize(graded *models.LayoutDocument) Summary {
	var s Summary
	if graded.ImgContainer == nil {
		return s
	}
	for _, plh := range graded.ImgContainer.Placeholders {
		s.Total++
		switch plh.Eval {
		case models.EvalCorrect:
			s.Correct++
		case models.EvalIncorrect:
			s.Incorrect++
		case models.EvalUnanswered:
			s.Unanswered++
		}
	}
	return s
}
