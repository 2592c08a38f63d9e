package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/srcmap/internal/scan"
	"github.com/temirov/srcmap/internal/types"
)

const (
	sourceDirectoryName   = "src"
	pythonFileName        = "main.py"
	pythonFileContent     = "import os\n\nprint('hello')\n"
	readmeFileName        = "README.md"
	readmeFileContent     = "# Project\n"
	gitDirectoryName      = ".git"
	gitConfigFileName     = "config"
	buildDirectoryName    = "build"
	objectFileName        = "out.o"
	emptyDirectoryName    = "empty"
	pythonFileLineCount   = 3
	readmeFileLineCount   = 1
	binaryImageFileName   = "logo.png"
	uppercaseDirName      = "Zeta"
	lowercaseDirName      = "alpha"
	uppercaseFileName     = "Beta.txt"
	lowercaseFileName     = "gamma.txt"
	markerlessFileContent = "x\n"
)

// buildFixtureTree writes the scenario project used by most tests and returns its root.
func buildFixtureTree(testingHandle *testing.T) string {
	rootDirectory := testingHandle.TempDir()
	sourceDirectory := filepath.Join(rootDirectory, sourceDirectoryName)
	gitDirectory := filepath.Join(rootDirectory, gitDirectoryName)
	buildDirectory := filepath.Join(rootDirectory, buildDirectoryName)
	for _, directoryPath := range []string{sourceDirectory, gitDirectory, buildDirectory} {
		if makeDirError := os.MkdirAll(directoryPath, 0o755); makeDirError != nil {
			testingHandle.Fatalf("mkdir %s: %v", directoryPath, makeDirError)
		}
	}
	fixtureFiles := map[string]string{
		filepath.Join(sourceDirectory, pythonFileName): pythonFileContent,
		filepath.Join(rootDirectory, readmeFileName):   readmeFileContent,
		filepath.Join(gitDirectory, gitConfigFileName): markerlessFileContent,
		filepath.Join(buildDirectory, objectFileName):  markerlessFileContent,
	}
	for filePath, fileContent := range fixtureFiles {
		if writeError := os.WriteFile(filePath, []byte(fileContent), 0o644); writeError != nil {
			testingHandle.Fatalf("write %s: %v", filePath, writeError)
		}
	}
	return rootDirectory
}

// findChild returns the direct child with the provided name, or nil.
func findChild(parentNode *types.Node, childName string) *types.Node {
	for _, childNode := range parentNode.Children {
		if childNode.Name == childName {
			return childNode
		}
	}
	return nil
}

// TestBuildTreeScenario verifies the tree shape, exclusions, paths, and line counts
// for a root containing source, documentation, and excluded content.
func TestBuildTreeScenario(testingHandle *testing.T) {
	rootDirectory := buildFixtureTree(testingHandle)
	treeBuilder := scan.TreeBuilder{}

	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	if !rootNode.IsDirectory() {
		testingHandle.Fatalf("expected directory root, got %s", rootNode.Type)
	}
	if rootNode.Path != filepath.Base(rootDirectory) {
		testingHandle.Fatalf("expected root path %q, got %q", filepath.Base(rootDirectory), rootNode.Path)
	}
	if len(rootNode.Children) != 2 {
		testingHandle.Fatalf("expected 2 retained children, got %d", len(rootNode.Children))
	}
	if findChild(rootNode, gitDirectoryName) != nil {
		testingHandle.Fatalf("%s must be excluded", gitDirectoryName)
	}
	if findChild(rootNode, buildDirectoryName) != nil {
		testingHandle.Fatalf("%s must be excluded", buildDirectoryName)
	}

	sourceNode := findChild(rootNode, sourceDirectoryName)
	if sourceNode == nil || !sourceNode.IsDirectory() {
		testingHandle.Fatalf("missing directory node %s", sourceDirectoryName)
	}
	pythonNode := findChild(sourceNode, pythonFileName)
	if pythonNode == nil || !pythonNode.IsFile() {
		testingHandle.Fatalf("missing file node %s", pythonFileName)
	}
	expectedPythonPath := filepath.Base(rootDirectory) + "/" + sourceDirectoryName + "/" + pythonFileName
	if pythonNode.Path != expectedPythonPath {
		testingHandle.Fatalf("expected path %q, got %q", expectedPythonPath, pythonNode.Path)
	}
	if pythonNode.Lines == nil || *pythonNode.Lines != pythonFileLineCount {
		testingHandle.Fatalf("expected %d lines for %s, got %+v", pythonFileLineCount, pythonFileName, pythonNode.Lines)
	}
	if pythonNode.Size == nil || *pythonNode.Size != int64(len(pythonFileContent)) {
		testingHandle.Fatalf("unexpected size for %s: %+v", pythonFileName, pythonNode.Size)
	}
	if pythonNode.Extension == nil || *pythonNode.Extension != ".py" {
		testingHandle.Fatalf("unexpected extension for %s: %+v", pythonFileName, pythonNode.Extension)
	}
	if pythonNode.Icon == "" {
		testingHandle.Fatalf("expected an icon for %s", pythonFileName)
	}

	readmeNode := findChild(rootNode, readmeFileName)
	if readmeNode == nil || readmeNode.Lines == nil || *readmeNode.Lines != readmeFileLineCount {
		testingHandle.Fatalf("unexpected node for %s: %+v", readmeFileName, readmeNode)
	}
}

// TestBuildTreeSortsDirectoriesBeforeFiles verifies the sorting invariant:
// directory children precede file children and names compare case-insensitively.
func TestBuildTreeSortsDirectoriesBeforeFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	for _, directoryName := range []string{uppercaseDirName, lowercaseDirName} {
		directoryPath := filepath.Join(rootDirectory, directoryName)
		if makeDirError := os.MkdirAll(directoryPath, 0o755); makeDirError != nil {
			testingHandle.Fatalf("mkdir: %v", makeDirError)
		}
		filePath := filepath.Join(directoryPath, lowercaseFileName)
		if writeError := os.WriteFile(filePath, []byte(markerlessFileContent), 0o644); writeError != nil {
			testingHandle.Fatalf("write: %v", writeError)
		}
	}
	for _, fileName := range []string{uppercaseFileName, lowercaseFileName} {
		filePath := filepath.Join(rootDirectory, fileName)
		if writeError := os.WriteFile(filePath, []byte(markerlessFileContent), 0o644); writeError != nil {
			testingHandle.Fatalf("write: %v", writeError)
		}
	}

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}

	expectedOrder := []string{lowercaseDirName, uppercaseDirName, uppercaseFileName, lowercaseFileName}
	if len(rootNode.Children) != len(expectedOrder) {
		testingHandle.Fatalf("expected %d children, got %d", len(expectedOrder), len(rootNode.Children))
	}
	for childIndex, expectedName := range expectedOrder {
		if rootNode.Children[childIndex].Name != expectedName {
			testingHandle.Fatalf("expected child %d to be %q, got %q", childIndex, expectedName, rootNode.Children[childIndex].Name)
		}
	}
}

// TestBuildTreeDropsEmptyDirectories verifies that directories whose content is
// entirely excluded disappear from the tree, propagating upward.
func TestBuildTreeDropsEmptyDirectories(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	emptyDirectory := filepath.Join(rootDirectory, emptyDirectoryName)
	nestedExcludedDirectory := filepath.Join(rootDirectory, "wrapper", buildDirectoryName)
	if makeDirError := os.MkdirAll(emptyDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if makeDirError := os.MkdirAll(nestedExcludedDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if writeError := os.WriteFile(filepath.Join(nestedExcludedDirectory, objectFileName), []byte(markerlessFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}
	retainedFilePath := filepath.Join(rootDirectory, readmeFileName)
	if writeError := os.WriteFile(retainedFilePath, []byte(readmeFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	if len(rootNode.Children) != 1 || rootNode.Children[0].Name != readmeFileName {
		testingHandle.Fatalf("expected only %s to survive, got %+v", readmeFileName, rootNode.Children)
	}
}

// TestBuildTreeExcludedRoot verifies that a fully excluded root yields no tree.
func TestBuildTreeExcludedRoot(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	buildDirectory := filepath.Join(rootDirectory, buildDirectoryName)
	if makeDirError := os.MkdirAll(buildDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode != nil {
		testingHandle.Fatalf("expected nil tree for excluded-only root, got %+v", rootNode)
	}
}

// TestBuildTreeFileRoot verifies scanning a single file directly.
func TestBuildTreeFileRoot(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	filePath := filepath.Join(rootDirectory, readmeFileName)
	if writeError := os.WriteFile(filePath, []byte(readmeFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}

	treeBuilder := scan.TreeBuilder{}
	fileNode, buildError := treeBuilder.BuildTree(filePath)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if fileNode == nil || !fileNode.IsFile() {
		testingHandle.Fatalf("expected file node, got %+v", fileNode)
	}
	if fileNode.Path != readmeFileName {
		testingHandle.Fatalf("expected path %q, got %q", readmeFileName, fileNode.Path)
	}
}

// TestBuildTreeDotfileHasNoExtension verifies that a dotfile's leading dot is
// not reported as an extension and does not trigger extension policies.
func TestBuildTreeDotfileHasNoExtension(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	dotfileName := ".gitignore"
	dotfilePath := filepath.Join(rootDirectory, dotfileName)
	if writeError := os.WriteFile(dotfilePath, []byte(markerlessFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	dotfileNode := findChild(rootNode, dotfileName)
	if dotfileNode == nil {
		testingHandle.Fatalf("expected %s to be retained", dotfileName)
	}
	if dotfileNode.Extension == nil || *dotfileNode.Extension != "" {
		testingHandle.Fatalf("expected empty extension for %s, got %+v", dotfileName, dotfileNode.Extension)
	}
	if dotfileNode.Lines != nil {
		testingHandle.Fatalf("expected no line count for %s", dotfileName)
	}
}

// TestBuildTreeSortsSymlinkedDirectoryAsDirectory verifies that a symlink
// resolving to a directory sorts among the directory children.
func TestBuildTreeSortsSymlinkedDirectoryAsDirectory(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	targetDirectory := filepath.Join(rootDirectory, "beta")
	if makeDirError := os.MkdirAll(targetDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if writeError := os.WriteFile(filepath.Join(targetDirectory, lowercaseFileName), []byte(markerlessFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}
	if writeError := os.WriteFile(filepath.Join(rootDirectory, "apple.txt"), []byte(markerlessFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}
	linkPath := filepath.Join(rootDirectory, "zeta-link")
	if symlinkError := os.Symlink(targetDirectory, linkPath); symlinkError != nil {
		testingHandle.Skipf("symlinks unavailable: %v", symlinkError)
	}

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	expectedOrder := []string{"beta", "zeta-link", "apple.txt"}
	if len(rootNode.Children) != len(expectedOrder) {
		testingHandle.Fatalf("expected %d children, got %d", len(expectedOrder), len(rootNode.Children))
	}
	for childIndex, expectedName := range expectedOrder {
		if rootNode.Children[childIndex].Name != expectedName {
			testingHandle.Fatalf("expected child %d to be %q, got %q", childIndex, expectedName, rootNode.Children[childIndex].Name)
		}
	}
	linkNode := rootNode.Children[1]
	if !linkNode.IsDirectory() {
		testingHandle.Fatalf("expected %s to be a directory node, got %s", linkNode.Name, linkNode.Type)
	}
}

// TestBuildTreeUnreadableFileCountsZeroLines verifies that a file the policy
// counts but the process cannot read is kept with a zero line count.
func TestBuildTreeUnreadableFileCountsZeroLines(testingHandle *testing.T) {
	if os.Geteuid() == 0 {
		testingHandle.Skip("permission bits do not restrict root")
	}
	rootDirectory := testingHandle.TempDir()
	unreadablePath := filepath.Join(rootDirectory, "locked.md")
	if writeError := os.WriteFile(unreadablePath, []byte(readmeFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}
	if chmodError := os.Chmod(unreadablePath, 0o000); chmodError != nil {
		testingHandle.Fatalf("chmod: %v", chmodError)
	}
	testingHandle.Cleanup(func() { _ = os.Chmod(unreadablePath, 0o644) })

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	lockedNode := findChild(rootNode, "locked.md")
	if lockedNode == nil {
		testingHandle.Fatalf("expected unreadable file to be kept")
	}
	if lockedNode.Lines == nil || *lockedNode.Lines != 0 {
		testingHandle.Fatalf("expected zero line count, got %+v", lockedNode.Lines)
	}
}

// zeroTokenCounter estimates zero tokens for every input.
type zeroTokenCounter struct{}

func (zeroTokenCounter) Name() string { return "zero" }

func (zeroTokenCounter) CountString(input string) (int, error) { return 0, nil }

// TestBuildTreeKeepsZeroTokenCount verifies that a counted file whose estimate
// is zero still carries an explicit token count.
func TestBuildTreeKeepsZeroTokenCount(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	filePath := filepath.Join(rootDirectory, readmeFileName)
	if writeError := os.WriteFile(filePath, []byte(readmeFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}

	treeBuilder := scan.TreeBuilder{TokenCounter: zeroTokenCounter{}}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	readmeNode := findChild(rootNode, readmeFileName)
	if readmeNode == nil {
		testingHandle.Fatalf("missing node for %s", readmeFileName)
	}
	if readmeNode.Tokens == nil || *readmeNode.Tokens != 0 {
		testingHandle.Fatalf("expected explicit zero token count, got %+v", readmeNode.Tokens)
	}
}

// TestBuildTreeOmitsLinesForUnmatchedFiles verifies that files outside the
// line-count policy carry no lines field at all.
func TestBuildTreeOmitsLinesForUnmatchedFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	imagePath := filepath.Join(rootDirectory, binaryImageFileName)
	if writeError := os.WriteFile(imagePath, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}

	treeBuilder := scan.TreeBuilder{}
	rootNode, buildError := treeBuilder.BuildTree(rootDirectory)
	if buildError != nil {
		testingHandle.Fatalf("BuildTree error: %v", buildError)
	}
	if rootNode == nil {
		testingHandle.Fatalf("expected a tree, got nil")
	}
	imageNode := findChild(rootNode, binaryImageFileName)
	if imageNode == nil {
		testingHandle.Fatalf("missing node for %s", binaryImageFileName)
	}
	if imageNode.Lines != nil {
		testingHandle.Fatalf("expected no line count for %s, got %d", binaryImageFileName, *imageNode.Lines)
	}
	if imageNode.Icon == "" {
		testingHandle.Fatalf("expected icon for %s", binaryImageFileName)
	}
}
