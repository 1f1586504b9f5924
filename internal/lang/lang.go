// Package lang identifies the two concrete syntaxes of the Syster modeling
// language by file extension.
package lang

import (
	"path/filepath"
	"strings"
)

// Language identifiers for the two concrete syntaxes.
const (
	SysML = "sysml"
	KerML = "kerml"
)

// extensions maps file extensions to language identifiers.
var extensions = map[string]string{
	".sysml": SysML,
	".kerml": KerML,
}

// ForPath returns the language identifier for the given file path, or ""
// if the path is not a recognized source file.
func ForPath(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Recognized reports whether the given path is one of the two recognized
// source-file kinds that trigger an automatic diagram refresh.
func Recognized(path string) bool {
	return ForPath(path) != ""
}
