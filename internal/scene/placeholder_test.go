package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
)

func TestNewPlaceholder_ClampsToMinimumSize(t *testing.T) {
	p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, geometry.Rect{Top: 10, Left: 10, Height: 3, Width: 400})

	assert.Equal(t, float64(MinPlaceholderSize), p.Rect.Height)
	assert.Equal(t, 400.0, p.Rect.Width)
	assert.Equal(t, p.Rect, p.OriginalRect)
}

func TestPlaceholder_BaseClassPerRole(t *testing.T) {
	tests := []struct {
		role models.Role
		typ  models.PlaceholderType
		want string
	}{
		{models.RoleEditor, models.PlaceholderImage, "imedEditorPlaceholderImg"},
		{models.RoleEditor, models.PlaceholderText, "imedEditorPlaceholderTxt"},
		{models.RoleQuestion, models.PlaceholderImage, "imedQuestionPlaceholderImg"},
		{models.RoleSolution, models.PlaceholderText, "imedRightPlhTxt"},
		{models.RoleAnswer, models.PlaceholderImage, "imedAnsPlhImg"},
	}
	for _, tt := range tests {
		p := NewPlaceholder(tt.role, "c_plh_1", tt.typ, geometry.Rect{Height: 50, Width: 50})
		assert.Equal(t, tt.want, p.Class, "role %s type %s", tt.role, tt.typ)
	}
}

func TestPlaceholder_SetEvalUpdatesClass(t *testing.T) {
	p := NewPlaceholder(models.RoleAnswer, "c_plh_1", models.PlaceholderText, geometry.Rect{Height: 50, Width: 50})

	p.SetEval(models.EvalCorrect)
	assert.Equal(t, "imedRightPlhTxt", p.Class)

	p.SetEval(models.EvalIncorrect)
	assert.Equal(t, "imedWrongPlhTxt", p.Class)

	p.SetEval(models.EvalUnanswered)
	assert.Equal(t, "imedNoAnsPlhTxt", p.Class)
}

func TestPlaceholder_AdjustDimensions(t *testing.T) {
	base := geometry.Rect{Top: 100, Left: 100, Height: 50, Width: 60}
	tests := []struct {
		name   string
		pos    geometry.Position
		dx, dy float64
		want   geometry.Rect
	}{
		{"center translates", geometry.PosCenter, 5, -10, geometry.Rect{Top: 90, Left: 105, Height: 50, Width: 60}},
		{"bottom grows height", geometry.PosBottom, 5, 10, geometry.Rect{Top: 100, Left: 100, Height: 60, Width: 60}},
		{"right grows width", geometry.PosRight, 10, 5, geometry.Rect{Top: 100, Left: 100, Height: 50, Width: 70}},
		{"top moves origin", geometry.PosTop, 0, 10, geometry.Rect{Top: 110, Left: 100, Height: 40, Width: 60}},
		{"left moves origin", geometry.PosLeft, 10, 0, geometry.Rect{Top: 100, Left: 110, Height: 50, Width: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, base)
			p.AdjustDimensions(tt.pos, tt.dx, tt.dy, 1)
			assert.Equal(t, tt.want, p.Rect)
		})
	}
}

func TestPlaceholder_ResizeNeverCollapsesBelowMinimum(t *testing.T) {
	p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, geometry.Rect{Height: 50, Width: 50})

	// Shrink far past the minimum from the bottom and right edges.
	for i := 0; i < 20; i++ {
		p.AdjustDimensions(geometry.PosBottom, 0, -10, 1)
		p.AdjustDimensions(geometry.PosRight, -10, 0, 1)
	}

	assert.Equal(t, float64(MinPlaceholderSize), p.Rect.Height)
	assert.Equal(t, float64(MinPlaceholderSize), p.Rect.Width)
}

func TestPlaceholder_ApplyGeometryScalesByMagFactor(t *testing.T) {
	p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, geometry.Rect{Top: 10, Left: 20, Height: 30, Width: 40})
	p.ApplyGeometry(2)

	assert.Equal(t, geometry.Rect{Top: 20, Left: 40, Height: 60, Width: 80}, p.Display)
}

func TestPlaceholder_RemoveImageRestoresOriginalRect(t *testing.T) {
	p := NewPlaceholder(models.RoleQuestion, "c_plh_1", models.PlaceholderImage, geometry.Rect{Height: 100, Width: 100})
	p.SetImage(content.ImageHandle{Name: "f_1.png", Width: 40, Height: 80})
	assert.Equal(t, "imedEmptyPlaceholderImg", p.Class)

	p.ShrinkToImage(1)
	assert.NotEqual(t, p.OriginalRect, p.Rect)

	p.RemoveImage(1)
	assert.Nil(t, p.Image)
	assert.Equal(t, "imedQuestionPlaceholderImg", p.Class)
	assert.Equal(t, p.OriginalRect, p.Rect)
}

func TestPlaceholder_ShrinkToImage(t *testing.T) {
	t.Run("tall image shrinks width", func(t *testing.T) {
		p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, geometry.Rect{Height: 100, Width: 100})
		p.SetImage(content.ImageHandle{Name: "f_1.png", Width: 50, Height: 100})

		p.ShrinkToImage(1)

		// Corrected frame is 96x96; width becomes 96*0.5 plus the corrector.
		assert.Equal(t, 100.0, p.Rect.Height)
		assert.InDelta(t, 52.0, p.Rect.Width, 1e-9)
	})

	t.Run("wide image shrinks height", func(t *testing.T) {
		p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, geometry.Rect{Height: 100, Width: 100})
		p.SetImage(content.ImageHandle{Name: "f_1.png", Width: 100, Height: 50})

		p.ShrinkToImage(1)

		assert.Equal(t, 100.0, p.Rect.Width)
		assert.InDelta(t, 52.0, p.Rect.Height, 1e-9)
	})

	t.Run("repeated shrink is stable", func(t *testing.T) {
		p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderImage, geometry.Rect{Height: 100, Width: 100})
		p.SetImage(content.ImageHandle{Name: "f_1.png", Width: 50, Height: 100})

		p.ShrinkToImage(1)
		first := p.Rect
		p.ShrinkToImage(1)
		assert.Equal(t, first, p.Rect)
	})

	t.Run("text placeholder untouched", func(t *testing.T) {
		p := NewPlaceholder(models.RoleEditor, "c_plh_1", models.PlaceholderText, geometry.Rect{Height: 100, Width: 100})
		before := p.Rect
		p.ShrinkToImage(1)
		assert.Equal(t, before, p.Rect)
	})
}

func TestPlaceholder_AcceptsDrop(t *testing.T) {
	tests := []struct {
		role models.Role
		typ  models.PlaceholderType
		want bool
	}{
		{models.RoleEditor, models.PlaceholderImage, true},
		{models.RoleQuestion, models.PlaceholderImage, true},
		{models.RoleEditor, models.PlaceholderText, false},
		{models.RoleSolution, models.PlaceholderImage, false},
		{models.RoleAnswer, models.PlaceholderImage, false},
	}
	for _, tt := range tests {
		p := NewPlaceholder(tt.role, "c_plh_1", tt.typ, geometry.Rect{Height: 50, Width: 50})
		assert.Equal(t, tt.want, p.AcceptsDrop(), "role %s type %s", tt.role, tt.typ)
	}
}

func TestPlaceholder_SerializeStripsContainerPrefix(t *testing.T) {
	p := NewPlaceholder(models.RoleEditor, "imgContainer_plh_3", models.PlaceholderText, geometry.Rect{Top: 1, Left: 2, Height: 30, Width: 40})
	p.Text = "Paris"

	rep := p.Serialize()

	assert.Equal(t, "plh_3", rep.ID)
	assert.Equal(t, models.PlaceholderText, rep.Type)
	assert.Equal(t, "Paris", rep.Content)
	assert.Equal(t, geometry.Rect{Top: 1, Left: 2, Height: 30, Width: 40}, rep.FullRect)
}
