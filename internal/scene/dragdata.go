package scene

import "fmt"

// DragSource identifies where a drag started.
type DragSource string

const (
	DragFromEditorPlaceholder   DragSource = "editorPlh"
	DragFromQuestionPlaceholder DragSource = "questionPlh"
	DragFromGallery             DragSource = "gallery"
)

// Drag payload tags. Each head is exactly twelve characters ending in '='
// so the payload can be split without scanning.
const (
	dragTagLen = 12

	tagEditorPlaceholder   = "editorPlh  ="
	tagQuestionPlaceholder = "questionPlh="
	tagGallery             = "gallery    ="
)

// DragData is a decoded drag payload: the source of the drag plus its
// value, a placeholder id for placeholder sources or an image name for
// gallery sources.
type DragData struct {
	Source DragSource
	Value  string
}

// EncodeDragData renders the payload in wire form.
func EncodeDragData(d DragData) (string, error) {
	switch d.Source {
	case DragFromEditorPlaceholder:
		return tagEditorPlaceholder + d.Value, nil
	case DragFromQuestionPlaceholder:
		return tagQuestionPlaceholder + d.Value, nil
	case DragFromGallery:
		return tagGallery + d.Value, nil
	default:
		return "", fmt.Errorf("unknown drag source %q", d.Source)
	}
}

// DecodeDragData parses a wire-form drag payload.
func DecodeDragData(raw string) (DragData, error) {
	if len(raw) < dragTagLen {
		return DragData{}, fmt.Errorf("drag payload %q too short", raw)
	}
	value := raw[dragTagLen:]
	switch raw[:dragTagLen] {
	case tagEditorPlaceholder:
		return DragData{Source: DragFromEditorPlaceholder, Value: value}, nil
	case tagQuestionPlaceholder:
		return DragData{Source: DragFromQuestionPlaceholder, Value: value}, nil
	case tagGallery:
		return DragData{Source: DragFromGallery, Value: value}, nil
	default:
		return DragData{}, fmt.Errorf("unknown drag payload tag %q", raw[:dragTagLen])
	}
}
