// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Formatting helpers and flag validation used across subcommands
package commands

import (
	"fmt"
	"time"

	"github.com/oceanloop/argonaut/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatDate renders a measurement date for table output
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// formatCoord renders an optional coordinate for table output
func formatCoord(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}

// formatValue renders an optional measurement value for table output
func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// locationString renders a profile's position or a placeholder
func locationString(p models.Profile) string {
	if p.Latitude == nil || p.Longitude == nil {
		return "(no location)"
	}
	return fmt.Sprintf("%.3f, %.3f", *p.Latitude, *p.Longitude)
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
