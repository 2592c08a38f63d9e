// Package types defines every cross‑package data structure used by the srcmap CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// Node represents one entry of the generated source tree. File nodes carry
// size, extension, icon, and optionally line and token counts; directory
// nodes carry children. Pointer fields distinguish absent values from zero.
type Node struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Path      string  `json:"path"`
	Size      *int64  `json:"size,omitempty"`
	Extension *string `json:"extension,omitempty"`
	Icon      string  `json:"icon,omitempty"`
	Lines     *int    `json:"lines,omitempty"`
	Tokens    *int    `json:"tokens,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// IsFile reports whether the node describes a file.
func (node *Node) IsFile() bool {
	return node.Type == NodeTypeFile
}

// IsDirectory reports whether the node describes a directory.
func (node *Node) IsDirectory() bool {
	return node.Type == NodeTypeDirectory
}

// Totals aggregates counts and sums over a finished tree. The token total is
// a pointer so that a tokenized scan summing to zero still emits the field.
type Totals struct {
	Files       int   `json:"files"`
	Directories int   `json:"directories"`
	Lines       int   `json:"lines"`
	Size        int64 `json:"size"`
	Tokens      *int  `json:"tokens,omitempty"`
}

// Report is the persisted artifact: a metadata envelope around the tree.
type Report struct {
	GeneratedAt string `json:"generated_at"`
	ProjectName string `json:"project_name"`
	Root        string `json:"root"`
	Totals      Totals `json:"totals"`
	Tree        *Node  `json:"tree"`
}
