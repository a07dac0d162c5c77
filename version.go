// Package ampyctl drives the ampy file tool against MicroPython boards.
package ampyctl

// Version is the ampyctl release, overridden at build time with
// -ldflags "-X github.com/deixis/ampyctl.Version=...".
var Version = "v0.1.0-dev"
