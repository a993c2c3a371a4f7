package catalog

import (
	"strings"
)

// Category paths are materialized ancestor chains: every ancestor id followed by
// the delimiter, starting from a leading delimiter. A root category has path ",";
// a category under root "men" has path ",men,"; one under "men" > "shoes" has
// path ",men,shoes,".
const (
	PathDelimiter = ","
	RootPath      = PathDelimiter
)

// ChildPath returns the path a direct child of the given parent must carry.
func ChildPath(parentPath, parentID string) string {
	return parentPath + parentID + PathDelimiter
}

// PathSegments splits a path into its ancestor ids, root first.
func PathSegments(path string) []string {
	trimmed := strings.Trim(path, PathDelimiter)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, PathDelimiter)
}

// JoinPathSegments is the inverse of PathSegments.
func JoinPathSegments(segments []string) string {
	if len(segments) == 0 {
		return RootPath
	}
	return PathDelimiter + strings.Join(segments, PathDelimiter) + PathDelimiter
}

// PathDepth returns the number of ancestors encoded in the path.
func PathDepth(path string) int {
	return len(PathSegments(path))
}

// PathHasSegment reports whether id appears in path as a whole segment.
// A substring of a segment does not count: id "1" is not in ",10,".
func PathHasSegment(path, id string) bool {
	if id == "" {
		return false
	}
	for _, seg := range PathSegments(path) {
		if seg == id {
			return true
		}
	}
	return false
}

// IsDescendantPath reports whether a category with the given path sits below
// the category identified by ancestorID.
func IsDescendantPath(path, ancestorID string) bool {
	return PathHasSegment(path, ancestorID)
}

// ReplacePathPrefix swaps oldPrefix for newPrefix at the start of path.
// It returns the path unchanged and false when path does not start with oldPrefix.
func ReplacePathPrefix(path, oldPrefix, newPrefix string) (string, bool) {
	if !strings.HasPrefix(path, oldPrefix) {
		return path, false
	}
	return newPrefix + path[len(oldPrefix):], true
}

// RenamePathSegment replaces every whole segment equal to oldID with newID.
// It returns the path unchanged and false when oldID is not a segment of path.
func RenamePathSegment(path, oldID, newID string) (string, bool) {
	segments := PathSegments(path)
	renamed := false
	for i, seg := range segments {
		if seg == oldID {
			segments[i] = newID
			renamed = true
		}
	}
	if !renamed {
		return path, false
	}
	return JoinPathSegments(segments), true
}

// ParentIDFromPath returns the id of the direct parent encoded in path, or ""
// for a root path.
func ParentIDFromPath(path string) string {
	segments := PathSegments(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// EscapeLikePattern escapes the LIKE wildcards in s using backslash so the
// value can be embedded in a LIKE pattern declared with ESCAPE '\'.
func EscapeLikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// SegmentLikePattern returns a LIKE pattern selecting every path that contains
// id between two delimiters. LIKE is case-insensitive on some engines, so
// callers confirm matches with PathHasSegment.
func SegmentLikePattern(id string) string {
	return "%" + PathDelimiter + EscapeLikePattern(id) + PathDelimiter + "%"
}
