package http

import (
	"time"

	xutil "AgriPull/pkg/util"
)

// ParseDate parses a YYYY-MM-DD request value.
func ParseDate(s string) (time.Time, bool) { return xutil.ParseDate(s) }
