package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imged/layout-service/internal/geometry"
)

// PlaceholderType tells what kind of answer a placeholder accepts.
type PlaceholderType string

const (
	PlaceholderImage PlaceholderType = "image"
	PlaceholderText  PlaceholderType = "text"
)

// Role identifies which face of the editor produced or consumes a layout.
type Role string

const (
	RoleEditor   Role = "editor"   // authoring
	RoleQuestion Role = "question" // student-facing
	RoleSolution Role = "solution" // reference display
	RoleAnswer   Role = "answer"   // graded review
)

// Evaluation is the grading verdict attached to a placeholder in answer-role
// layouts. The zero value means the placeholder has not been graded.
type Evaluation string

const (
	EvalUnset      Evaluation = ""
	EvalCorrect    Evaluation = "correct"
	EvalIncorrect  Evaluation = "incorrect"
	EvalUnanswered Evaluation = "unanswered"
)

// PlaceholderRep is the serialized form of one placeholder. The id is stored
// without the owning container's prefix; it is re-prefixed on load.
type PlaceholderRep struct {
	Type     PlaceholderType `json:"type" validate:"required,oneof=image text"`
	ID       string          `json:"id" validate:"required"`
	Content  string          `json:"content"`
	FullRect geometry.Rect   `json:"fullRect"`
	Eval     Evaluation      `json:"eval,omitempty" validate:"omitempty,oneof=correct incorrect unanswered"`
}

// ContainerRep is the serialized form of an image container: the base image
// name, its intrinsic dimensions and the magnification applied for display.
type ContainerRep struct {
	BaseImage    string           `json:"baseImage" validate:"required"`
	Height       float64          `json:"height" validate:"gte=0"`
	Width        float64          `json:"width" validate:"gte=0"`
	Ratio        float64          `json:"ratio"`
	MagFactor    float64          `json:"magFactor" validate:"required,gt=0"`
	Placeholders []PlaceholderRep `json:"placeholders" validate:"dive"`
}

// LayoutDocument is the unit persisted by the storage service and exchanged
// between the teacher, student and grading phases. ImgContainer is nil for a
// layout stored before a base image was dropped.
type LayoutDocument struct {
	Origin       Role          `json:"origin" validate:"required,oneof=editor question solution answer"`
	ImgContainer *ContainerRep `json:"imgContainer,omitempty"`
	Gallery      []string      `json:"gallery"`
}

// ParseLayoutDocument decodes raw layout JSON and rejects documents whose
// required fields are missing, so a malformed stored layout surfaces at load
// time rather than as a half-built editor.
func ParseLayoutDocument(raw []byte) (*LayoutDocument, error) {
	var doc LayoutDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("layout document is not valid JSON: %w", err)
	}
	if doc.Origin == "" {
		return nil, fmt.Errorf("layout document missing origin")
	}
	if doc.ImgContainer != nil {
		if doc.ImgContainer.BaseImage == "" {
			return nil, fmt.Errorf("layout document missing base image name")
		}
		if doc.ImgContainer.MagFactor <= 0 {
			return nil, fmt.Errorf("layout document has non-positive magFactor")
		}
		for i, plh := range doc.ImgContainer.Placeholders {
			if plh.Type != PlaceholderImage && plh.Type != PlaceholderText {
				return nil, fmt.Errorf("placeholder %d has unknown type %q", i, plh.Type)
			}
		}
	}
	return &doc, nil
}

// Encode renders the document to JSON.
func (d *LayoutDocument) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// StripIDPrefix removes the container-specific part of a placeholder id.
// Full ids look like "<containerID>_plh_<n>"; the stored form keeps "plh_<n>".
func StripIDPrefix(id string) string {
	if i := strings.Index(id, "_"); i >= 0 {
		return id[i+1:]
	}
	return id
}
