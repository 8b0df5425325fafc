package ndsfs

import (
	"path"
	"strings"
)

// normalizePath resolves p against the working directory cwd.
// The result is absolute, slash separated and has no "." or ".." segments.
// ".." at the root stays at the root.
func normalizePath(cwd, p string) string {
	p = strings.ReplaceAll(p, "\\", "/")

	var segments []string
	if !strings.HasPrefix(p, "/") {
		segments = splitPath(cwd)
	}

	for _, s := range strings.Split(p, "/") {
		switch s {
		case "", ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, s)
		}
	}

	return "/" + strings.Join(segments, "/")
}

// splitPath returns the non empty segments of p.
func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// pathKey is the identity of a normalized path; paths compare case insensitive.
func pathKey(p string) string {
	return strings.ToLower(p)
}

// parentPath returns the directory containing p. The parent of "/" is "/".
func parentPath(p string) string {
	return path.Dir(p)
}

// baseName returns the last segment of p, "/" for the root.
func baseName(p string) string {
	return path.Base(p)
}

func joinPath(dir, name string) string {
	return path.Join(dir, name)
}
