package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/srcmap/internal/tokenizer"
	"github.com/temirov/srcmap/internal/types"
)

const (
	// warningReadDirectoryFormat is used when a directory cannot be read.
	warningReadDirectoryFormat = "Warning: unable to read directory %s: %v\n"
	// warningTokenCountFormat is used when token estimation fails for a file.
	warningTokenCountFormat = "Warning: failed to count tokens for %s: %v\n"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
)

// TreeBuilder builds source tree nodes using configured options.
type TreeBuilder struct {
	TokenCounter tokenizer.Counter
}

// BuildTree builds the tree rooted at rootPath. Every emitted path is
// relative to the parent of the resolved root, so the tree is self-contained
// under the root directory's own name. A nil result means the root was
// excluded, inaccessible, or contained nothing the policies retain.
func (treeBuilder *TreeBuilder) BuildTree(rootPath string) (*types.Node, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	return treeBuilder.buildNode(absoluteRootPath, filepath.Dir(absoluteRootPath)), nil
}

// buildNode recursively builds the node for currentPath. Exclusion is
// evaluated per node; per-node stat and read failures degrade locally and
// never abort the traversal.
func (treeBuilder *TreeBuilder) buildNode(currentPath string, relativeBase string) *types.Node {
	entryName := filepath.Base(currentPath)
	pathInformation, statError := os.Stat(currentPath)
	if statError != nil {
		return nil
	}

	switch {
	case pathInformation.Mode().IsRegular():
		if ShouldExcludeFile(entryName) {
			return nil
		}
		return treeBuilder.buildFileNode(currentPath, entryName, relativeBase, pathInformation.Size())
	case pathInformation.IsDir():
		if ShouldExcludeDirectory(entryName) {
			return nil
		}
		return treeBuilder.buildDirectoryNode(currentPath, entryName, relativeBase)
	default:
		return nil
	}
}

// buildFileNode produces a file node with size, extension, icon, and an
// optional line count per the line-count policy.
func (treeBuilder *TreeBuilder) buildFileNode(filePath string, fileName string, relativeBase string, fileSize int64) *types.Node {
	fileExtension := FileSuffix(fileName)
	node := &types.Node{
		Name:      fileName,
		Type:      types.NodeTypeFile,
		Path:      relativePath(filePath, relativeBase),
		Size:      &fileSize,
		Extension: &fileExtension,
		Icon:      FileIcon(fileName),
	}

	if ShouldCountLines(fileName) {
		lineCount := CountFileLines(filePath)
		node.Lines = &lineCount
	}

	if treeBuilder.TokenCounter != nil {
		tokenResult, tokenError := tokenizer.CountFile(treeBuilder.TokenCounter, filePath)
		if tokenError != nil {
			fmt.Fprintf(os.Stderr, warningTokenCountFormat, filePath, tokenError)
		} else if tokenResult.Counted {
			tokenCount := tokenResult.Tokens
			node.Tokens = &tokenCount
		}
	}

	return node
}

// buildDirectoryNode recurses into a directory, sorting children so that
// directories precede files and names compare case-insensitively. Children are
// sorted after classification, so a symlink resolving to a directory sorts as
// one. A directory whose children are all excluded is dropped entirely.
func (treeBuilder *TreeBuilder) buildDirectoryNode(directoryPath string, directoryName string, relativeBase string) *types.Node {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		fmt.Fprintf(os.Stderr, warningReadDirectoryFormat, directoryPath, readDirectoryError)
		return nil
	}

	var childNodes []*types.Node
	for _, directoryEntry := range directoryEntries {
		childNode := treeBuilder.buildNode(filepath.Join(directoryPath, directoryEntry.Name()), relativeBase)
		if childNode != nil {
			childNodes = append(childNodes, childNode)
		}
	}

	if len(childNodes) == 0 {
		return nil
	}

	sort.SliceStable(childNodes, func(firstIndex, secondIndex int) bool {
		firstNode := childNodes[firstIndex]
		secondNode := childNodes[secondIndex]
		if firstNode.IsDirectory() != secondNode.IsDirectory() {
			return firstNode.IsDirectory()
		}
		return strings.ToLower(firstNode.Name) < strings.ToLower(secondNode.Name)
	})

	return &types.Node{
		Name:     directoryName,
		Type:     types.NodeTypeDirectory,
		Path:     relativePath(directoryPath, relativeBase),
		Children: childNodes,
	}
}

// relativePath returns fullPath relative to relativeBase in forward-slash
// form, falling back to the cleaned full path when no relation exists.
func relativePath(fullPath string, relativeBase string) string {
	relative, relativeError := filepath.Rel(relativeBase, fullPath)
	if relativeError != nil {
		return filepath.Clean(fullPath)
	}
	return filepath.ToSlash(relative)
}
