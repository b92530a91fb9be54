package hdf5

import (
	"fmt"
	stdpath "path"
	"strings"
)

// attrSeparator splits an object path from an attribute name.
const attrSeparator = "@"

// ParseAttrPath parses an attribute path into object path and attribute name.
// Path format: /group/subgroup/object@attribute_name
//
// Examples:
//   - "/@root_attr" -> objectPath="/", attrName="root_attr"
//   - "/data@units" -> objectPath="/data", attrName="units"
//   - "/sensors/temp@calibration" -> objectPath="/sensors/temp", attrName="calibration"
//
// Returns an error if the path is invalid or missing the @ separator.
func ParseAttrPath(path string) (objectPath, attrName string, err error) {
	if path == "" {
		return "", "", fmt.Errorf("empty attribute path")
	}

	// The last separator wins, so object names containing "@" still
	// resolve when the attribute name does not.
	sep := strings.LastIndex(path, attrSeparator)
	switch {
	case sep < 0:
		return "", "", fmt.Errorf("attribute path must contain %q separator: %s", attrSeparator, path)
	case sep == len(path)-1:
		return "", "", fmt.Errorf("attribute name cannot be empty: %s", path)
	}

	return CleanPath(path[:sep]), path[sep+1:], nil
}

// JoinAttrPath creates an attribute path from object path and attribute name.
func JoinAttrPath(objectPath, attrName string) string {
	if objectPath == "/" {
		return "/" + attrSeparator + attrName
	}
	return objectPath + attrSeparator + attrName
}

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/foo" -> []string{"foo"}
//   - "/foo/bar" -> []string{"foo", "bar"}
func SplitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// CleanPath normalizes a path: absolute, no trailing slash, "." and ".."
// segments resolved.
func CleanPath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return stdpath.Clean(path)
}
