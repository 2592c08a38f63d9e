// Package scan builds the source tree: it applies the fixed exclusion and
// line-counting policies while recursively traversing a project directory.
package scan

import (
	"path/filepath"
	"strings"
)

// hiddenPrefix marks hidden files and directories.
const hiddenPrefix = "."

// defaultFileIcon is used for file types without a dedicated icon.
const defaultFileIcon = "\U0001F4C4"

// excludedDirectoryNames lists directories never descended into: version
// control, build artifacts, dependency caches, and platform build folders.
var excludedDirectoryNames = map[string]struct{}{
	".git":             {},
	".dart_tool":       {},
	".idea":            {},
	"build":            {},
	"node_modules":     {},
	"__pycache__":      {},
	".venv":            {},
	"venv":             {},
	".gradle":          {},
	".pub-cache":       {},
	"coverage":         {},
	".flutter-plugins": {},
	"android":          {},
	"ios":              {},
	"linux":            {},
	"macos":            {},
	"windows":          {},
	"ephemeral":        {},
}

// excludedFileNames lists files never emitted: OS metadata, lockfiles, and
// generated dependency descriptors.
var excludedFileNames = map[string]struct{}{
	".DS_Store":                     {},
	"Thumbs.db":                     {},
	".flutter-plugins":              {},
	".flutter-plugins-dependencies": {},
	"pubspec.lock":                  {},
	".packages":                     {},
	".metadata":                     {},
}

// excludedFileExtensions lists compiled and binary artifact extensions.
var excludedFileExtensions = map[string]struct{}{
	".pyc":   {},
	".pyo":   {},
	".class": {},
	".o":     {},
	".so":    {},
	".dylib": {},
	".exe":   {},
}

// countableExtensions lists the text and source extensions whose files get a line count.
var countableExtensions = map[string]struct{}{
	".dart":   {},
	".go":     {},
	".py":     {},
	".js":     {},
	".ts":     {},
	".html":   {},
	".css":    {},
	".scss":   {},
	".json":   {},
	".yaml":   {},
	".yml":    {},
	".md":     {},
	".txt":    {},
	".sh":     {},
	".xml":    {},
	".gradle": {},
	".toml":   {},
	".mojo":   {},
}

// countableFileNames lists extensionless build, readme, and manifest
// conventions whose files always get a line count.
var countableFileNames = map[string]struct{}{
	"Makefile":              {},
	"Dockerfile":            {},
	"CLAUDE.md":             {},
	"README.md":             {},
	"pubspec.yaml":          {},
	"analysis_options.yaml": {},
}

// fileIcons maps lower-case extensions to their display icon.
var fileIcons = map[string]string{
	".dart": "\U0001F3AF",
	".py":   "\U0001F40D",
	".mojo": "\U0001F525",
	".js":   "\U0001F4C4",
	".ts":   "\U0001F4C4",
	".html": "\U0001F310",
	".css":  "\U0001F3A8",
	".scss": "\U0001F3A8",
	".json": "\U0001F4CB",
	".yaml": "\U0001F4CB",
	".yml":  "\U0001F4CB",
	".md":   "\U0001F4DD",
	".sh":   "⌨",
	".xml":  "\U0001F4C4",
	".svg":  "\U0001F5BC",
	".png":  "\U0001F5BC",
	".jpg":  "\U0001F5BC",
	".gif":  "\U0001F5BC",
}

// ShouldExcludeDirectory reports whether a directory name is excluded from scanning.
func ShouldExcludeDirectory(directoryName string) bool {
	if _, isExcluded := excludedDirectoryNames[directoryName]; isExcluded {
		return true
	}
	return strings.HasPrefix(directoryName, hiddenPrefix)
}

// ShouldExcludeFile reports whether a file name is excluded from scanning.
func ShouldExcludeFile(fileName string) bool {
	if _, isExcluded := excludedFileNames[fileName]; isExcluded {
		return true
	}
	_, isExcluded := excludedFileExtensions[FileSuffix(fileName)]
	return isExcluded
}

// ShouldCountLines reports whether the line-count policy applies to a file name.
func ShouldCountLines(fileName string) bool {
	if _, isCountable := countableFileNames[fileName]; isCountable {
		return true
	}
	_, isCountable := countableExtensions[FileSuffix(fileName)]
	return isCountable
}

// FileIcon returns the display icon for a file name, falling back to the default icon.
func FileIcon(fileName string) string {
	if icon, isMapped := fileIcons[FileSuffix(fileName)]; isMapped {
		return icon
	}
	return defaultFileIcon
}

// FileSuffix returns the lower-cased extension of fileName. A dotfile such as
// .gitignore has no extension: its single leading dot names a hidden file, so
// the result is empty rather than the whole name.
func FileSuffix(fileName string) string {
	extension := filepath.Ext(fileName)
	if extension == fileName {
		return ""
	}
	return strings.ToLower(extension)
}
