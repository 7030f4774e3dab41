package scene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
)

func newTestCollection(role models.Role) *Collection {
	return NewCollection("imgContainer", role)
}

func TestCollection_NextID(t *testing.T) {
	c := newTestCollection(models.RoleEditor)

	assert.Equal(t, "imgContainer_plh_1", c.NextID())

	c.Append(NewPlaceholder(models.RoleEditor, c.NextID(), models.PlaceholderImage, geometry.Rect{Height: 20, Width: 20}))
	c.Append(NewPlaceholder(models.RoleEditor, c.NextID(), models.PlaceholderText, geometry.Rect{Height: 20, Width: 20}))
	assert.Equal(t, "imgContainer_plh_3", c.NextID())

	// Deleting a middle member must not make its suffix reusable.
	c.Remove("imgContainer_plh_1")
	assert.Equal(t, "imgContainer_plh_3", c.NextID())

	// Deleting the highest member frees nothing either while earlier ones
	// remain, but an empty collection restarts at 1.
	c.Remove("imgContainer_plh_2")
	assert.Equal(t, "imgContainer_plh_1", c.NextID())
}

func TestCollection_RemoveAbsentIsNoop(t *testing.T) {
	c := newTestCollection(models.RoleEditor)
	c.Append(NewPlaceholder(models.RoleEditor, "imgContainer_plh_1", models.PlaceholderImage, geometry.Rect{Height: 20, Width: 20}))

	c.Remove("imgContainer_plh_99")

	assert.Equal(t, 1, c.Len())
}

func TestCollection_LoadTwoPhase(t *testing.T) {
	loader := content.StaticLoader{
		"f_1.png": {Name: "f_1.png", Width: 40, Height: 40},
	}
	reps := []models.PlaceholderRep{
		{Type: models.PlaceholderText, ID: "plh_1", Content: "Paris", FullRect: geometry.Rect{Height: 20, Width: 60}},
		{Type: models.PlaceholderImage, ID: "plh_2", Content: "f_1.png", FullRect: geometry.Rect{Height: 50, Width: 50}},
		{Type: models.PlaceholderText, ID: "plh_3", Content: "", FullRect: geometry.Rect{Height: 20, Width: 60}},
	}

	c := newTestCollection(models.RoleEditor)
	require.NoError(t, c.Load(context.Background(), reps, loader))

	require.Equal(t, 3, c.Len())
	assert.Equal(t, "imgContainer_plh_1", c.At(0).ID)
	assert.Equal(t, "Paris", c.At(0).Text)
	require.NotNil(t, c.At(1).Image)
	assert.Equal(t, "f_1.png", c.At(1).Image.Name)
	assert.Equal(t, "", c.At(2).Text)

	// Loaded ids feed the id generator.
	assert.Equal(t, "imgContainer_plh_4", c.NextID())
}

func TestCollection_LoadMissingImageFails(t *testing.T) {
	reps := []models.PlaceholderRep{
		{Type: models.PlaceholderImage, ID: "plh_1", Content: "gone.png", FullRect: geometry.Rect{Height: 50, Width: 50}},
	}

	c := newTestCollection(models.RoleEditor)
	err := c.Load(context.Background(), reps, content.StaticLoader{})

	assert.Error(t, err)
}

func TestCollection_LoadAnswerRoleAppliesEval(t *testing.T) {
	reps := []models.PlaceholderRep{
		{Type: models.PlaceholderText, ID: "plh_1", Content: "Paris", FullRect: geometry.Rect{Height: 20, Width: 60}, Eval: models.EvalCorrect},
	}

	c := newTestCollection(models.RoleAnswer)
	require.NoError(t, c.Load(context.Background(), reps, content.StaticLoader{}))

	assert.Equal(t, models.EvalCorrect, c.At(0).Eval)
	assert.Equal(t, "imedRightPlhTxt", c.At(0).Class)
}

func TestCollection_SyncFrom(t *testing.T) {
	c := newTestCollection(models.RoleEditor)
	c.Append(NewPlaceholder(models.RoleEditor, "imgContainer_plh_1", models.PlaceholderImage, geometry.Rect{Height: 30, Width: 40}))
	c.Append(NewPlaceholder(models.RoleEditor, "imgContainer_plh_2", models.PlaceholderImage, geometry.Rect{Height: 80, Width: 90}))
	c.Append(NewPlaceholder(models.RoleEditor, "imgContainer_plh_3", models.PlaceholderText, geometry.Rect{Height: 15, Width: 15}))

	c.SyncFrom(0, 1)

	assert.Equal(t, geometry.Rect{Height: 30, Width: 40}, geometry.Rect{Height: c.At(1).Rect.Height, Width: c.At(1).Rect.Width})
	// Text placeholders are untouched.
	assert.Equal(t, 15.0, c.At(2).Rect.Height)
}

func TestCollection_DisableTextAreas(t *testing.T) {
	c := newTestCollection(models.RoleQuestion)
	c.Append(NewPlaceholder(models.RoleQuestion, "imgContainer_plh_1", models.PlaceholderText, geometry.Rect{Height: 20, Width: 60}))
	c.Append(NewPlaceholder(models.RoleQuestion, "imgContainer_plh_2", models.PlaceholderImage, geometry.Rect{Height: 20, Width: 60}))

	c.DisableTextAreas(true)

	assert.True(t, c.At(0).TextDisabled)
	assert.False(t, c.At(1).TextDisabled)
}

func TestCollection_FindImageByName(t *testing.T) {
	c := newTestCollection(models.RoleEditor)
	p := NewPlaceholder(models.RoleEditor, "imgContainer_plh_1", models.PlaceholderImage, geometry.Rect{Height: 20, Width: 20})
	p.SetImage(content.ImageHandle{Name: "f_7.jpg", Width: 10, Height: 10})
	c.Append(p)

	assert.Same(t, p, c.FindImageByName("f_7.jpg"))
	assert.Nil(t, c.FindImageByName("f_8.jpg"))
}
