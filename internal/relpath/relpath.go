// Package relpath computes relative paths between absolute filesystem paths
// without depending on the separator convention of the host OS.
package relpath

import "strings"

const parent = ".."

// Rel returns the minimal relative path from the directory fromDir to the
// file toFile, joined with sep.
//
// Both inputs are split on '/' and '\' so Windows and Unix style paths are
// handled the same way on every platform. Empty segments are dropped, which
// makes trailing and doubled separators insignificant. For every segment of
// fromDir beyond the common prefix one ".." is emitted, followed by the
// remaining segments of toFile.
//
// An empty fromDir is treated as the root: the result is the segments of
// toFile joined with sep.
func Rel(fromDir, toFile, sep string) string {
	from := Split(fromDir)
	to := Split(toFile)

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, parent)
	}
	parts = append(parts, to[common:]...)

	return strings.Join(parts, sep)
}

// Split breaks a path into its non-empty segments. Both '/' and '\' are
// treated as separators.
func Split(path string) []string {
	return strings.FieldsFunc(path, isSeparator)
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
