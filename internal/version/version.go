package version

// Version is the current version of argo-forecast.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-forecast/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// ModelFormatVersion is the version of the serialized model layout written
// by this build. Readers accept artifacts with the same major and minor.
const ModelFormatVersion = "1.0.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
