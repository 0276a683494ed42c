// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Set at link time with -ldflags "-X .../pkg/utils.Version=...".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent identifies this build in outgoing backend requests.
func UserAgent() string {
	return "similicana/" + Version
}
