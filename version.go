package avida

// Version information for the avida client.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/kelvinofficial/avida-sub002.Version=1.0.0"
const (
	// Name is the application name.
	Name = "avida"

	// Description is a short description of the application.
	Description = "Avida classifieds marketplace client - cache-first listings feed"

	// Version is the semantic version of the application.
	// Override at build time with ldflags for releases.
	Version = "0.2.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/kelvinofficial/avida-sub002"
)

// BuildInfo contains build-time information.
// These are typically set via ldflags during build.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
