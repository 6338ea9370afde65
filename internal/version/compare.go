package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// CheckFormatCompatibility reports whether a model artifact written with
// artifactVersion can be read by a build that writes readerVersion.
//
// Major and minor must match, patch may differ. Either side being "main"
// (a development build) skips the check. A leading "v" is ignored.
//
//   - reader 1.0.0, artifact 1.0.4 -> ok
//   - reader 1.1.0, artifact 1.0.0 -> minor version mismatch
//   - reader main, artifact 3.1.0 -> ok
func CheckFormatCompatibility(readerVersion, artifactVersion string) error {
	readerVersion = strings.TrimPrefix(readerVersion, "v")
	artifactVersion = strings.TrimPrefix(artifactVersion, "v")

	if readerVersion == "main" || artifactVersion == "main" {
		return nil
	}

	reader, err := semver.NewVersion(readerVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid reader version '%s'", readerVersion)
	}

	artifact, err := semver.NewVersion(artifactVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid artifact version '%s'", artifactVersion)
	}

	if reader.Major() != artifact.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"major version mismatch: reader supports %d.x.x but model was written with %d.x.x",
			reader.Major(), artifact.Major())
	}

	if reader.Minor() != artifact.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"minor version mismatch: reader supports %d.%d.x but model was written with %d.%d.x",
			reader.Major(), reader.Minor(), artifact.Major(), artifact.Minor())
	}

	return nil
}
