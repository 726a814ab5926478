package variant

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Platform is the closed set of publishing targets the catalog knows.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformPinterest Platform = "pinterest"
	PlatformWebsite   Platform = "website"
	PlatformStory     Platform = "story"
)

// Platforms lists every known platform in catalog order.
func Platforms() []Platform {
	return []Platform{
		PlatformInstagram,
		PlatformFacebook,
		PlatformPinterest,
		PlatformWebsite,
		PlatformStory,
	}
}

// ParsePlatform resolves a platform name, rejecting unknown values.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

// VariantSpec maps (platform, variant name) to a target aspect ratio and
// pixel dimensions. Immutable catalog data.
type VariantSpec struct {
	Platform     Platform `json:"platform"`
	Name         string   `json:"name"`
	AspectW      int      `json:"aspect_w"`
	AspectH      int      `json:"aspect_h"`
	TargetWidth  int      `json:"target_width"`
	TargetHeight int      `json:"target_height"`
}

// Validate checks structural sanity plus the catalog invariant that the
// target dimensions reduce to the declared aspect ratio within rounding
// tolerance.
func (s VariantSpec) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Platform, validation.Required),
		validation.Field(&s.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&s.AspectW, validation.Min(1)),
		validation.Field(&s.AspectH, validation.Min(1)),
		validation.Field(&s.TargetWidth, validation.Min(1)),
		validation.Field(&s.TargetHeight, validation.Min(1)),
	)
	if err != nil {
		return err
	}

	// |tw*ah - th*aw| scaled by the aspect terms bounds the drift to
	// under a pixel per dimension.
	drift := s.TargetWidth*s.AspectH - s.TargetHeight*s.AspectW
	if drift < 0 {
		drift = -drift
	}
	if drift > maxInt(s.AspectW, s.AspectH) {
		return fmt.Errorf("%w: %s/%s %dx%d does not reduce to %d:%d",
			ErrSpecRatioMismatch, s.Platform, s.Name,
			s.TargetWidth, s.TargetHeight, s.AspectW, s.AspectH)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
