package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ZeroDuration is stored when a video's length is unknown.
const ZeroDuration = "PT0M0S"

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// durationParts splits iso into hour, minute and second components as written.
func durationParts(iso string) (h, m, s int, ok bool) {
	match := isoDurationPattern.FindStringSubmatch(iso)
	if match == nil {
		return 0, 0, 0, false
	}

	parts := [3]int{}
	for i := range parts {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0, 0, 0, false
		}
		parts[i] = n
	}
	return parts[0], parts[1], parts[2], true
}

// ParseDuration converts an ISO-8601 video duration (PT#H#M#S) into a [time.Duration].
//
// Absent components count as zero. Returns false when iso does not match the pattern.
func ParseDuration(iso string) (time.Duration, bool) {
	h, m, s, ok := durationParts(iso)
	if !ok {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second, true
}

// FormatDuration renders an ISO-8601 duration as H:MM:SS, or M:SS when there is no hour component.
//
// Components are printed as written (PT90M is "90:00"). Input that does not parse is returned
// unchanged so legacy values still render.
func FormatDuration(iso string) string {
	h, m, s, ok := durationParts(iso)
	if !ok {
		return iso
	}
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSeconds renders a second count as H:MM:SS, or M:SS when under an hour.
func FormatSeconds(total int) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
