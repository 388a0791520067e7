// Package gnverse keeps build information of the application.
package gnverse

var (
	// Version of gnverse, set during the build.
	Version = "v0.1.0"

	// Build timestamp, set during the build.
	Build = "n/a"
)
