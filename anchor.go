package ggtext

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// HAlign specifies the horizontal anchor of a text block relative to its
// position. Left anchors the position at the left edge of the text, Center at
// its midpoint, Right at its right edge.
type HAlign int

const (
	// Left anchors text at its left edge.
	Left HAlign = iota
	// Center anchors text at its horizontal midpoint.
	Center
	// Right anchors text at its right edge.
	Right
)

// String returns the string representation of the horizontal anchor.
func (h HAlign) String() string {
	switch h {
	case Left:
		return "Left"
	case Center:
		return "Center"
	case Right:
		return "Right"
	default:
		return unknownStr
	}
}

// VAlign specifies the vertical anchor of a text block relative to its
// position. Top anchors the position at the top edge of the text, Middle at
// its midpoint, Bottom at its bottom edge.
type VAlign int

const (
	// Top anchors text at its top edge.
	Top VAlign = iota
	// Middle anchors text at its vertical midpoint.
	Middle
	// Bottom anchors text at its bottom edge.
	Bottom
)

// String returns the string representation of the vertical anchor.
func (v VAlign) String() string {
	switch v {
	case Top:
		return "Top"
	case Middle:
		return "Middle"
	case Bottom:
		return "Bottom"
	default:
		return unknownStr
	}
}
