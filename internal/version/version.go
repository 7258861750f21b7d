package version

// Name identifies the service in logs, traces, and emitted events.
const Name = "shopd"

// Version is overridden at build time via -ldflags.
var Version = "dev"
