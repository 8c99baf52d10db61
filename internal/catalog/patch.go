package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"catalogpress/internal/services"
)

var indexSegment = regexp.MustCompile(`^\d+$`)

// Apply mutates root so the leaf addressed by the dot-separated path equals
// value, creating missing intermediate containers along the way. Purely
// numeric segments address sequence indexes; all others address mapping keys.
// An empty path is a no-op. Addressing a numeric segment into a non-sequence
// container is rejected rather than silently skipped.
func Apply(root Record, path string, value any) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return services.Wrap(services.ErrValidation, "patch", "apply", fmt.Sprintf("path %q contains an empty segment", path), nil)
		}
	}
	_, err := assign(map[string]any(root), segments, value)
	return err
}

// ApplyAll applies every patch independently in sorted-path order, giving a
// deterministic sequential composition when patches arrive as a map. Later
// patches observe earlier mutations.
func ApplyAll(root Record, patches map[string]any) error {
	paths := make([]string, 0, len(patches))
	for path := range patches {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := Apply(root, path, patches[path]); err != nil {
			return err
		}
	}
	return nil
}

// assign descends into node along segments and writes value at the leaf.
// It returns the (possibly reallocated) container so parents can re-link
// grown sequences.
func assign(node any, segments []string, value any) (any, error) {
	head, rest := segments[0], segments[1:]

	if indexSegment.MatchString(head) {
		seq, ok := node.([]any)
		if !ok {
			return nil, services.Wrap(
				services.ErrValidation,
				"patch", "apply",
				fmt.Sprintf("segment %q indexes into a non-sequence container", head),
				nil,
			)
		}
		index, err := strconv.Atoi(head)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "patch", "apply", fmt.Sprintf("segment %q is not a valid index", head), err)
		}
		// Sparse fill: missing slots become empty mappings so nested
		// writes beyond the current length succeed.
		for len(seq) <= index {
			seq = append(seq, map[string]any{})
		}
		if len(rest) == 0 {
			seq[index] = value
			return seq, nil
		}
		child, err := assign(containerFor(seq[index]), rest, value)
		if err != nil {
			return nil, err
		}
		seq[index] = child
		return seq, nil
	}

	mapping, ok := node.(map[string]any)
	if !ok {
		mapping = make(map[string]any)
	}
	if len(rest) == 0 {
		mapping[head] = value
		return mapping, nil
	}
	child, err := assign(containerFor(mapping[head]), rest, value)
	if err != nil {
		return nil, err
	}
	mapping[head] = child
	return mapping, nil
}

// containerFor keeps an existing container for further descent and replaces
// anything else (absent keys, nils, scalars) with a fresh mapping.
func containerFor(existing any) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	default:
		return map[string]any{}
	}
}
