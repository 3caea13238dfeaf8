// Package version holds the build version, set with
// -ldflags "-X github.com/alexcabrera/pickr/internal/version.Version=...".
package version

// Version is the pickr release. Development builds report "devel".
var Version = "devel"
