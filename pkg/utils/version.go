// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Build identity, overridden at release time through -ldflags -X
// (see .dagger/build.go). The zero-value build reports itself as dev.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
