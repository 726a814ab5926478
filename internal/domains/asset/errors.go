package asset

import "errors"

// ErrSourceNotFound means the source asset id does not resolve to a
// live row. For generation this is a client error; for regeneration it
// maps to the source-unavailable contract.
var ErrSourceNotFound = errors.New("source asset not found")
