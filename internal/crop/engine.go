package crop

import (
	"errors"
	"fmt"
	"math"
)

// ========================================
// STRATEGIES
// ========================================

// Strategy selects how the crop window is placed inside the source.
// Closed set; unknown strings are rejected at the API boundary.
type Strategy string

const (
	// SmartCrop maximizes overlap with the safe zone, ties resolve
	// toward centered placement.
	SmartCrop Strategy = "smart"
	// CenterCrop centers the window on the source, ignoring the safe zone
	// for placement (it is still scored against it).
	CenterCrop Strategy = "center"
	// TopCrop and BottomCrop anchor the window to the top or bottom edge,
	// horizontally centered. Useful for portrait targets cut from
	// landscape sources where the subject sits high or low in frame.
	TopCrop    Strategy = "top"
	BottomCrop Strategy = "bottom"
)

var ErrUnknownStrategy = errors.New("unknown crop strategy")

// ParseStrategy resolves a strategy name. Empty string means SmartCrop.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "":
		return SmartCrop, nil
	case string(SmartCrop), string(CenterCrop), string(TopCrop), string(BottomCrop):
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// ========================================
// GEOMETRY
// ========================================

// Rect is a pixel rectangle within a source image.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropRectangle is the engine's output: placed window, fidelity score
// and the safe zones the score was computed against.
type CropRectangle struct {
	Rect
	Score     int    `json:"score"`
	SafeZones []Rect `json:"safe_zones,omitempty"`
}

var ErrInvalidDimensions = errors.New("source and aspect dimensions must be positive")

// SafeZone returns the center-thirds rectangle of a source:
// x in [w/3, 2w/3], y in [h/3, 2h/3], bounds rounded to nearest pixel.
// A conservative stand-in for subject position absent real saliency.
func SafeZone(srcW, srcH int) Rect {
	x0 := roundDiv(srcW, 3)
	x1 := roundDiv(2*srcW, 3)
	y0 := roundDiv(srcH, 3)
	y1 := roundDiv(2*srcH, 3)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Compute places the largest window of aspect ratio aspectW:aspectH inside
// a srcW x srcH source according to strategy, and scores it against the
// safe zone. The window always fits the source on its constraining axis
// and is never upscaled past source pixels.
func Compute(srcW, srcH, aspectW, aspectH int, strategy Strategy) (CropRectangle, error) {
	if srcW <= 0 || srcH <= 0 || aspectW <= 0 || aspectH <= 0 {
		return CropRectangle{}, fmt.Errorf("%w: source %dx%d aspect %d:%d",
			ErrInvalidDimensions, srcW, srcH, aspectW, aspectH)
	}

	cropW, cropH := fitWindow(srcW, srcH, aspectW, aspectH)
	zone := SafeZone(srcW, srcH)

	var x, y int
	switch strategy {
	case SmartCrop:
		x = placeMaxOverlap(srcW, cropW, zone.X, zone.Width)
		y = placeMaxOverlap(srcH, cropH, zone.Y, zone.Height)
	case CenterCrop:
		x = (srcW - cropW) / 2
		y = (srcH - cropH) / 2
	case TopCrop:
		x = (srcW - cropW) / 2
		y = 0
	case BottomCrop:
		x = (srcW - cropW) / 2
		y = srcH - cropH
	default:
		return CropRectangle{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	rect := Rect{X: x, Y: y, Width: cropW, Height: cropH}
	return CropRectangle{
		Rect:      rect,
		Score:     ScoreAgainst(rect, zone),
		SafeZones: []Rect{zone},
	}, nil
}

// fitWindow returns the largest aspectW:aspectH window that fits in the
// source, rounded to whole pixels on the free axis.
func fitWindow(srcW, srcH, aspectW, aspectH int) (int, int) {
	// srcW*aspectH <= srcH*aspectW means the source is at least as tall
	// as the target ratio, so width is the constraining axis.
	if srcW*aspectH <= srcH*aspectW {
		w := srcW
		h := roundDiv(srcW*aspectH, aspectW)
		if h > srcH {
			h = srcH
		}
		return w, h
	}
	h := srcH
	w := roundDiv(srcH*aspectW, aspectH)
	if w > srcW {
		w = srcW
	}
	return w, h
}

// placeMaxOverlap slides a window of length winLen along one axis of a
// source of length srcLen and returns the offset maximizing overlap with
// the zone segment [zoneOff, zoneOff+zoneLen). All maximal placements
// form a contiguous interval; ties resolve to the offset in that interval
// closest to the centered placement.
func placeMaxOverlap(srcLen, winLen, zoneOff, zoneLen int) int {
	maxOff := srcLen - winLen
	if maxOff <= 0 {
		return 0
	}

	var lo, hi int
	if winLen >= zoneLen {
		// The window can cover the whole zone; any offset keeping the
		// zone inside is maximal.
		lo = clamp(zoneOff+zoneLen-winLen, 0, maxOff)
		hi = clamp(zoneOff, 0, maxOff)
	} else {
		// The window is smaller than the zone; maximal overlap keeps the
		// window fully inside the zone.
		lo = clamp(zoneOff, 0, maxOff)
		hi = clamp(zoneOff+zoneLen-winLen, 0, maxOff)
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	centered := (srcLen - winLen) / 2
	return clamp(centered, lo, hi)
}

// ========================================
// SCORING
// ========================================

// ScoreAgainst computes round(100 * overlap(rect, zone) / area(zone)),
// clamped to [0,100]. Full containment of the zone scores 100; disjoint
// rectangles score 0.
func ScoreAgainst(rect, zone Rect) int {
	zoneArea := zone.Width * zone.Height
	if zoneArea <= 0 {
		return 0
	}
	ov := overlapArea(rect, zone)
	score := int(math.Round(100 * float64(ov) / float64(zoneArea)))
	return clamp(score, 0, 100)
}

func overlapArea(a, b Rect) int {
	x0 := maxInt(a.X, b.X)
	y0 := maxInt(a.Y, b.Y)
	x1 := minInt(a.X+a.Width, b.X+b.Width)
	y1 := minInt(a.Y+a.Height, b.Y+b.Height)
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	return (x1 - x0) * (y1 - y0)
}

// ========================================
// WARNINGS
// ========================================

type WarningSeverity string

const (
	WarningSevere   WarningSeverity = "severe"
	WarningModerate WarningSeverity = "moderate"
)

// Warning flags a crop whose fidelity score suggests subject loss.
type Warning struct {
	Severity WarningSeverity `json:"severity"`
	Message  string          `json:"message"`
}

// WarningsFor maps a score to validation warnings. The thresholds are
// contract: score < 50 severe, 50-69 moderate, 70+ clean.
func WarningsFor(score int) []Warning {
	switch {
	case score < 50:
		return []Warning{{
			Severity: WarningSevere,
			Message:  fmt.Sprintf("crop keeps only %d%% of the safe zone, significant subject loss likely", score),
		}}
	case score < 70:
		return []Warning{{
			Severity: WarningModerate,
			Message:  fmt.Sprintf("crop keeps %d%% of the safe zone, review before export", score),
		}}
	default:
		return nil
	}
}

// ========================================
// HELPERS
// ========================================

func roundDiv(a, b int) int {
	return int(math.Round(float64(a) / float64(b)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
