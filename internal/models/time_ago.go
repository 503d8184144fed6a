package models

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders a creation instant relative to now. Buckets use
// integer floor division of elapsed seconds, so exactly one hour lands in
// the hours bucket ("1 hours ago"), not the minutes one.
func FormatTimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)

	if seconds < 60 {
		return "Just now"
	}
	if seconds < 3600 {
		return fmt.Sprintf("%d minutes ago", seconds/60)
	}
	if seconds < 86400 {
		return fmt.Sprintf("%d hours ago", seconds/3600)
	}
	if seconds < 604800 {
		return fmt.Sprintf("%d days ago", seconds/86400)
	}
	return t.Format("1/2/2006")
}
