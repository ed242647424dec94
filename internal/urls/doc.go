// Package urls provides centralized constants for the host API endpoint and the
// documentation URLs used throughout the application.
//
// All URLs are defined here as exported constants so they can be updated in a
// single location.
//
// Usage:
//
//	import "github.com/muurk/modalstate/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.SocketMode)
package urls
