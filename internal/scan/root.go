package scan

import (
	"os"
	"path/filepath"
)

// projectRootMarkers lists the conventional files and directories whose
// presence identifies a project root during upward discovery.
var projectRootMarkers = []string{
	"pubspec.yaml",
	"package.json",
	"pyproject.toml",
	"go.mod",
	".git",
}

// FindProjectRoot searches upward from startDirectory for the first ancestor
// containing a project marker and returns it. When no marker is found up to
// the filesystem root, the absolute form of startDirectory is returned.
func FindProjectRoot(startDirectory string) string {
	absoluteStartDirectory, absolutePathError := filepath.Abs(startDirectory)
	if absolutePathError != nil {
		return startDirectory
	}

	currentDirectory := absoluteStartDirectory
	for {
		for _, markerName := range projectRootMarkers {
			markerPath := filepath.Join(currentDirectory, markerName)
			if _, statError := os.Stat(markerPath); statError == nil {
				return currentDirectory
			}
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return absoluteStartDirectory
}
