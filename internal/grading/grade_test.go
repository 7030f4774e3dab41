package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imged/layout-service/internal/models"
)

func docWithContents(origin models.Role, contents ...string) *models.LayoutDocument {
	placeholders := make([]models.PlaceholderRep, len(contents))
	for i, c := range contents {
		placeholders[i] = models.PlaceholderRep{
			Type:    models.PlaceholderText,
			ID:      "plh_1",
			Content: c,
		}
	}
	return &models.LayoutDocument{
		Origin: origin,
		ImgContainer: &models.ContainerRep{
			BaseImage:    "base.png",
			MagFactor:    1,
			Placeholders: placeholders,
		},
	}
}

func TestGrade_Verdicts(t *testing.T) {
	tests := []struct {
		name    string
		student string
		want    models.Evaluation
	}{
		{"exact match", "Paris", models.EvalCorrect},
		{"match after trimming", "  Paris  ", models.EvalCorrect},
		{"blank answer", "  ", models.EvalUnanswered},
		{"case-sensitive mismatch", "paris", models.EvalIncorrect},
		{"wrong answer", "Rome", models.EvalIncorrect},
	}
	reference := docWithContents(models.RoleEditor, "Paris")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graded, err := Grade(docWithContents(models.RoleQuestion, tt.student), reference)
			require.NoError(t, err)
			require.Len(t, graded.ImgContainer.Placeholders, 1)
			assert.Equal(t, tt.want, graded.ImgContainer.Placeholders[0].Eval)
			assert.Equal(t, models.RoleAnswer, graded.Origin)
		})
	}
}

func TestGrade_PairsPositionally(t *testing.T) {
	reference := docWithContents(models.RoleEditor, "Paris", "Rome", "Berlin")
	student := docWithContents(models.RoleQuestion, "Paris", "", "Rome")

	graded, err := Grade(student, reference)
	require.NoError(t, err)

	evals := []models.Evaluation{
		graded.ImgContainer.Placeholders[0].Eval,
		graded.ImgContainer.Placeholders[1].Eval,
		graded.ImgContainer.Placeholders[2].Eval,
	}
	assert.Equal(t, []models.Evaluation{models.EvalCorrect, models.EvalUnanswered, models.EvalIncorrect}, evals)
}

func TestGrade_FailsFastOnShapeMismatch(t *testing.T) {
	reference := docWithContents(models.RoleEditor, "Paris", "Rome")
	student := docWithContents(models.RoleQuestion, "Paris")

	_, err := Grade(student, reference)
	assert.ErrorIs(t, err, ErrLayoutMismatch)

	_, err = Grade(&models.LayoutDocument{Origin: models.RoleQuestion}, reference)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestGrade_DoesNotMutateInput(t *testing.T) {
	reference := docWithContents(models.RoleEditor, "Paris")
	student := docWithContents(models.RoleQuestion, "Rome")

	_, err := Grade(student, reference)
	require.NoError(t, err)

	assert.Equal(t, models.EvalUnset, student.ImgContainer.Placeholders[0].Eval)
	assert.Equal(t, models.RoleQuestion, student.Origin)
}

func TestGradeJSON_RoundTrip(t *testing.T) {
	reference := docWithContents(models.RoleEditor, "Paris")
	student := docWithContents(models.RoleQuestion, "Paris")
	refRaw, err := reference.Encode()
	require.NoError(t, err)
	stuRaw, err := student.Encode()
	require.NoError(t, err)

	gradedRaw, err := GradeJSON(stuRaw, refRaw)
	require.NoError(t, err)

	graded, err := models.ParseLayoutDocument(gradedRaw)
	require.NoError(t, err)
	assert.Equal(t, models.EvalCorrect, graded.ImgContainer.Placeholders[0].Eval)

	_, err = GradeJSON([]byte("{"), refRaw)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	reference := docWithContents(models.RoleEditor, "a", "b", "c", "d")
	student := docWithContents(models.RoleQuestion, "a", "x", "", "d")

	graded, err := Grade(student, reference)
	require.NoError(t, err)

	assert.Equal(t, Summary{Correct: 2, Incorrect: 1, Unanswered: 1, Total: 4}, Summarize(graded))
}
