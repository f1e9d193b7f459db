package layout

import "sort"

// ColumnModel estimates, per page, the x coordinate where the body
// column begins. The handbook layout never declares its columns
// structurally, so the boundary is inferred from line start positions.
type ColumnModel struct {
	// MinRatio is the fallback: body column starts at page width * MinRatio.
	MinRatio float64

	// GapMin is the smallest x0 gap treated as the gutter/body split.
	GapMin float64

	// LargestGap enables gap estimation; when false only the fixed
	// ratio is used.
	LargestGap bool
}

// minLinesForGapEstimate is the minimum number of distinct line starts
// needed before the largest-gap estimate is trusted over the ratio.
const minLinesForGapEstimate = 6

// BodyStart returns the estimated x coordinate of the body column for a
// page with the given non-empty lines. It always returns a value: when
// gap estimation finds no convincing split it falls back to the fixed
// ratio.
func (m ColumnModel) BodyStart(lines []Line, pageWidth float64) float64 {
	fallback := pageWidth * m.MinRatio
	if !m.LargestGap {
		return fallback
	}

	var xs []float64
	for _, ln := range lines {
		if ln.Text != "" {
			xs = append(xs, ln.X0)
		}
	}
	if len(xs) < minLinesForGapEstimate {
		return fallback
	}
	sort.Float64s(xs)

	bestGap, bestIdx := 0.0, -1
	for i := 0; i+1 < len(xs); i++ {
		if gap := xs[i+1] - xs[i]; gap > bestGap {
			bestGap, bestIdx = gap, i
		}
	}
	if bestIdx < 0 || bestGap < m.GapMin {
		return fallback
	}
	return xs[bestIdx+1]
}
