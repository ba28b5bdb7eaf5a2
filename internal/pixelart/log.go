package pixelart

import "log"

// Debug enables stage-level debug logging through the standard logger.
var Debug bool

func debugf(format string, args ...interface{}) {
	if Debug {
		log.Printf(format, args...)
	}
}
