// Package season derives the game season from the client's user-agent build
// string. Classification is pure: no side effects, no clock access.
package season

import (
	"strconv"
	"strings"
)

// Season is the classifier result.
type Season struct {
	Season int
	Build  string
}

const releaseMarker = "Release-"

// Classify parses a user-agent of the form
// "Fortnite/++Fortnite+Release-12.41-CL-12901305 Windows/10" and returns the
// season number (the release major version). ok is false when the user-agent
// carries no recognizable build marker.
func Classify(userAgent string) (Season, bool) {
	idx := strings.Index(userAgent, releaseMarker)
	if idx < 0 {
		return Season{}, false
	}

	build := userAgent[idx+len(releaseMarker):]
	if end := strings.IndexAny(build, "- "); end >= 0 {
		build = build[:end]
	}
	if build == "" {
		return Season{}, false
	}

	major := build
	if dot := strings.IndexByte(build, '.'); dot >= 0 {
		major = build[:dot]
	}

	n, err := strconv.Atoi(major)
	if err != nil || n < 0 {
		return Season{}, false
	}

	return Season{Season: n, Build: build}, true
}
