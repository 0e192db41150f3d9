package input

import "errors"

// ErrInputTooLarge indicates the migration output exceeds the configured size cap.
var ErrInputTooLarge = errors.New("migration output exceeds size limit")
