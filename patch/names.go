package patch

import "fmt"

// Element identifiers a cooperating renderer attaches to the parts of a
// document the engine updates.
const (
	IDBackground = "RSFPY_BGRECT"
	IDBaseAxes   = "RSFPY_BASE_AX"
)

// Panel numbers. AX1 is the front (axis 1 down, axis 2 across), AX2 the
// side (axis 1 down, axis 3 across) and AX3 the top (axis 2 across, axis
// 3 up). Inline images appear in the document in this order.
const (
	AX1 = 1
	AX2 = 2
	AX3 = 3
)

// LineID returns the identifier of a panel's horizontal or vertical
// indicator line.
func LineID(panel int, horizontal bool) string {
	if horizontal {
		return fmt.Sprintf("RSFPY_AX%d_HLINE", panel)
	}
	return fmt.Sprintf("RSFPY_AX%d_VLINE", panel)
}

// LabelID returns the identifier of the label showing the position along
// axis (1-based).
func LabelID(axis int) string {
	return fmt.Sprintf("RSFPY_FRAME%d_LABEL", axis)
}

// AnchorID returns the identifier of a panel's axis rectangle. The data
// bounds are embedded as (left, right, bottom, top).
func AnchorID(panel int, b Bounds) string {
	return fmt.Sprintf("RSFPY_AX%d_RECT_%f_%f_%f_%f", panel, b.Left, b.Right, b.Bottom, b.Top)
}

// fixedAxis is the 0-based array axis a panel slices through.
func fixedAxis(panel int) int { return 3 - panel }
