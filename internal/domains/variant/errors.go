package variant

import "errors"

var (
	ErrUnknownPlatform   = errors.New("unknown platform")
	ErrSpecRatioMismatch = errors.New("variant spec target dimensions do not match aspect ratio")
)
