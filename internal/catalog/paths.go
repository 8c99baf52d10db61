package catalog

import (
	"fmt"
	"path"
	"regexp"

	"catalogpress/internal/services"
)

var targetIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidTargetID reports whether id is a well-formed catalog record
// identifier. Identifiers feed directly into canonical paths, so the
// character set is kept strict.
func ValidTargetID(id string) bool {
	return targetIDPattern.MatchString(id)
}

// PathFor derives the canonical repository path for a record: the content
// directory, the target id, and the file extension. Paths use forward
// slashes; they address the upstream repository, not the local filesystem.
func PathFor(contentDir, targetID, extension string) (string, error) {
	if !ValidTargetID(targetID) {
		return "", services.Wrap(services.ErrValidation, "catalog", "path", fmt.Sprintf("target id %q is not valid", targetID), nil)
	}
	return path.Join(contentDir, targetID+extension), nil
}
