// Package version provides version information for the price oracle.
package version

// Version is the current version of the application.
const Version = "0.1.0"

// UserAgent returns the agent string sent with outbound API requests.
func UserAgent() string {
	return "price-oracle/v" + Version
}
