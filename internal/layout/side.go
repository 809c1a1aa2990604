package layout

// Side dominance thresholds on the left ratio. Both comparisons are strict.
const (
	LeftDominanceRatio  = 0.65
	RightDominanceRatio = 0.35
)

// SideCounts partitions boxes by which half of the image their center falls in.
type SideCounts struct {
	Left  int `json:"left_box_count"`
	Right int `json:"right_box_count"`
}

// Total returns Left+Right.
func (c SideCounts) Total() int {
	return c.Left + c.Right
}

// CountSides counts boxes whose horizontal center is strictly left of midlineX
// as left, all others as right.
func CountSides(boxes []BoundingBox, midlineX float64) SideCounts {
	var c SideCounts
	for _, b := range boxes {
		if b.Center().X < midlineX {
			c.Left++
		} else {
			c.Right++
		}
	}
	return c
}

// GuessSide classifies the side counts. With no boxes the result is balanced.
func GuessSide(c SideCounts) Side {
	total := c.Total()
	if total == 0 {
		return SideBalanced
	}
	leftRatio := float64(c.Left) / float64(total)
	switch {
	case leftRatio > LeftDominanceRatio:
		return SideLeft
	case leftRatio < RightDominanceRatio:
		return SideRight
	default:
		return SideBalanced
	}
}
