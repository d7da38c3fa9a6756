package xtc

import "github.com/rs/zerolog"

// log is the package's one sanctioned logger, used only for the
// non-fatal lsize/natoms mismatch warning (spec section 4.4.4). It
// defaults to zerolog.Nop() so importing this package never produces
// output a caller didn't ask for; call SetLogger to opt in, following
// the InitLogger-returns-a-configured-logger convention rather than
// forcing a global log sink on library consumers.
var log = zerolog.Nop()

// SetLogger installs l as the destination for this package's warnings.
func SetLogger(l zerolog.Logger) {
	log = l
}
