package monitor

import (
	"fmt"

	"github.com/jpalmerr/specwatch/internal/endpoint"
)

// ChangeMessage formats the notification sent when a source changes.
func ChangeMessage(url string, report endpoint.Report) string {
	return fmt.Sprintf("Changes detected at %s!\n```diff\n%s\n```", url, report.String())
}

// FatalMessage formats the notification sent when the loop stops on an
// unexpected error.
func FatalMessage(err error) string {
	return fmt.Sprintf("Monitoring script encountered an error: %v", err)
}
