package crop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeZone(t *testing.T) {
	zone := SafeZone(4000, 3000)

	assert.Equal(t, 1333, zone.X)
	assert.Equal(t, 2667, zone.X+zone.Width)
	assert.Equal(t, 1000, zone.Y)
	assert.Equal(t, 2000, zone.Y+zone.Height)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"", SmartCrop, false},
		{"smart", SmartCrop, false},
		{"center", CenterCrop, false},
		{"top", TopCrop, false},
		{"bottom", BottomCrop, false},
		{"face-detect", "", true},
		{"SMART", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownStrategy, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestComputeRejectsInvalidDimensions(t *testing.T) {
	cases := [][4]int{
		{0, 3000, 1, 1},
		{4000, 0, 1, 1},
		{4000, 3000, 0, 1},
		{4000, 3000, 1, -1},
		{-1, -1, 1, 1},
	}

	for _, c := range cases {
		_, err := Compute(c[0], c[1], c[2], c[3], SmartCrop)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "case %v", c)
	}
}

// Landscape 4000x3000 source cropped square: the window is 3000x3000 at
// y=0 and fully contains the center-thirds safe zone, so the smart
// placement lands centered with a perfect score.
func TestComputeSquareFromLandscape(t *testing.T) {
	result, err := Compute(4000, 3000, 1, 1, SmartCrop)
	require.NoError(t, err)

	assert.Equal(t, 3000, result.Width)
	assert.Equal(t, 3000, result.Height)
	assert.Equal(t, 0, result.Y)
	assert.GreaterOrEqual(t, result.X, 0)
	assert.LessOrEqual(t, result.X, 1000)
	assert.Equal(t, 500, result.X, "ties resolve toward centered placement")
	assert.Equal(t, 100, result.Score)
	require.Len(t, result.SafeZones, 1)
	assert.Equal(t, SafeZone(4000, 3000), result.SafeZones[0])
}

func TestComputeBoundsAndRatio(t *testing.T) {
	sources := [][2]int{
		{4000, 3000}, {3000, 4000}, {1920, 1080}, {1080, 1920},
		{500, 500}, {4032, 3024}, {999, 333}, {100, 2000},
	}
	aspects := [][2]int{
		{1, 1}, {4, 5}, {3, 4}, {16, 9}, {9, 16}, {2, 3}, {1000, 1500},
	}
	strategies := []Strategy{SmartCrop, CenterCrop, TopCrop, BottomCrop}

	for _, src := range sources {
		for _, ar := range aspects {
			for _, strat := range strategies {
				result, err := Compute(src[0], src[1], ar[0], ar[1], strat)
				require.NoError(t, err)

				// Window stays inside the source.
				assert.GreaterOrEqual(t, result.X, 0)
				assert.GreaterOrEqual(t, result.Y, 0)
				assert.Positive(t, result.Width)
				assert.Positive(t, result.Height)
				assert.LessOrEqual(t, result.X+result.Width, src[0],
					"src %v aspect %v strategy %s", src, ar, strat)
				assert.LessOrEqual(t, result.Y+result.Height, src[1],
					"src %v aspect %v strategy %s", src, ar, strat)

				// Aspect ratio holds within 1px of rounding on the free axis.
				diff := result.Width*ar[1] - result.Height*ar[0]
				if diff < 0 {
					diff = -diff
				}
				tolerance := maxInt(ar[0], ar[1])
				assert.LessOrEqual(t, diff, tolerance,
					"ratio drift: src %v aspect %v got %dx%d", src, ar, result.Width, result.Height)

				assert.GreaterOrEqual(t, result.Score, 0)
				assert.LessOrEqual(t, result.Score, 100)
			}
		}
	}
}

// A centered crop that swallows the whole safe zone always scores 100.
func TestCenterCropContainingZoneScores100(t *testing.T) {
	result, err := Compute(4000, 3000, 1, 1, CenterCrop)
	require.NoError(t, err)

	assert.Equal(t, 500, result.X)
	assert.Equal(t, 0, result.Y)
	assert.Equal(t, 100, result.Score)
}

func TestTopBottomAnchoring(t *testing.T) {
	top, err := Compute(3000, 4000, 1, 1, TopCrop)
	require.NoError(t, err)
	bottom, err := Compute(3000, 4000, 1, 1, BottomCrop)
	require.NoError(t, err)
	center, err := Compute(3000, 4000, 1, 1, CenterCrop)
	require.NoError(t, err)

	assert.Equal(t, 0, top.Y)
	assert.Equal(t, 1000, bottom.Y)
	assert.Equal(t, 500, center.Y)

	// Horizontal placement is centered for all three.
	assert.Equal(t, 0, top.X)
	assert.Equal(t, 0, bottom.X)
	assert.Equal(t, 0, center.X)
}

// Window narrower than the zone: maximal placements form a plateau and the
// centered one must win.
func TestSmartCropTieBreaksCentered(t *testing.T) {
	result, err := Compute(9000, 1000, 1, 1, SmartCrop)
	require.NoError(t, err)

	assert.Equal(t, 1000, result.Width)
	assert.Equal(t, 1000, result.Height)
	// Zone x spans [3000,6000]; any x in [3000,5000] is maximal.
	assert.Equal(t, 4000, result.X)
}

func TestScoreMonotonicInOverlap(t *testing.T) {
	zone := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	prev := -1
	for w := 0; w <= 100; w++ {
		score := ScoreAgainst(Rect{X: 0, Y: 0, Width: w, Height: 100}, zone)
		assert.GreaterOrEqual(t, score, prev, "score regressed at width %d", w)
		prev = score
	}
	assert.Equal(t, 100, prev)
}

func TestScoreDisjointIsZero(t *testing.T) {
	zone := Rect{X: 100, Y: 100, Width: 50, Height: 50}
	assert.Equal(t, 0, ScoreAgainst(Rect{X: 0, Y: 0, Width: 100, Height: 100}, zone))
	assert.Equal(t, 0, ScoreAgainst(Rect{X: 200, Y: 200, Width: 10, Height: 10}, zone))
}

// The warning thresholds are contract: <50 severe, 50-69 moderate, 70+ clean.
func TestWarningThresholds(t *testing.T) {
	tests := []struct {
		score    int
		severity WarningSeverity
		none     bool
	}{
		{0, WarningSevere, false},
		{49, WarningSevere, false},
		{50, WarningModerate, false},
		{69, WarningModerate, false},
		{70, "", true},
		{100, "", true},
	}

	for _, tt := range tests {
		warnings := WarningsFor(tt.score)
		if tt.none {
			assert.Empty(t, warnings, "score %d", tt.score)
			continue
		}
		require.Len(t, warnings, 1, "score %d", tt.score)
		assert.Equal(t, tt.severity, warnings[0].Severity, "score %d", tt.score)
		assert.NotEmpty(t, warnings[0].Message)
	}
}
