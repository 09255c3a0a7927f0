package version

// CliVersion is overridden at build time through -ldflags.
var CliVersion = "v1.1.0"
