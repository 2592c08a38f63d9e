// Package report aggregates totals over a finished tree and emits the JSON report.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/temirov/srcmap/internal/types"
	"github.com/temirov/srcmap/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	// generatedAtLayout formats the report timestamp (an ISO-8601 profile).
	generatedAtLayout = time.RFC3339

	// reportFilePermissions are applied to the written report file.
	reportFilePermissions = 0o644
	// reportDirectoryPermissions are applied to created parent directories.
	reportDirectoryPermissions = 0o755

	summaryScanningFormat = "Scanning: %s\n"
	summaryProjectFormat  = "Project: %s\n"
	summaryOutputFormat   = "Output: %s\n"
	summaryCountsFormat   = "Files: %d, Directories: %d\n"
	summaryTotalsFormat   = "Lines: %d, Size: %s\n"

	// errorCreateDirectoryFormat is used when the output directory cannot be created.
	errorCreateDirectoryFormat = "creating output directory %s: %w"
	// errorWriteReportFormat is used when the report file cannot be written.
	errorWriteReportFormat = "writing report to %s: %w"
	// errorRenderReportFormat is used when the report cannot be serialized.
	errorRenderReportFormat = "rendering report: %w"
)

// ComputeTotals walks the finished tree once and sums file and directory
// counts, sizes, line counts, and token counts. Absent fields count as zero.
func ComputeTotals(tree *types.Node) types.Totals {
	var totals types.Totals
	accumulateTotals(tree, &totals)
	return totals
}

// accumulateTotals adds the node and its descendants to totals.
func accumulateTotals(node *types.Node, totals *types.Totals) {
	if node == nil {
		return
	}
	if node.IsFile() {
		totals.Files++
		if node.Size != nil {
			totals.Size += *node.Size
		}
		if node.Lines != nil {
			totals.Lines += *node.Lines
		}
		if node.Tokens != nil {
			if totals.Tokens == nil {
				totals.Tokens = new(int)
			}
			*totals.Tokens += *node.Tokens
		}
		return
	}
	if node.IsDirectory() {
		totals.Directories++
		for _, childNode := range node.Children {
			accumulateTotals(childNode, totals)
		}
	}
}

// NewReport assembles the report envelope around the finished tree.
func NewReport(projectName string, rootPath string, tree *types.Node) types.Report {
	return types.Report{
		GeneratedAt: time.Now().Format(generatedAtLayout),
		ProjectName: projectName,
		Root:        rootPath,
		Totals:      ComputeTotals(tree),
		Tree:        tree,
	}
}

// RenderJSON serializes the report as pretty-printed JSON with two-space
// indentation. HTML escaping is disabled so icon glyphs and other non-ASCII
// characters stay literal.
func RenderJSON(reportEnvelope types.Report) (string, error) {
	var renderedBuffer bytes.Buffer
	jsonEncoder := json.NewEncoder(&renderedBuffer)
	jsonEncoder.SetEscapeHTML(false)
	jsonEncoder.SetIndent(indentPrefix, indentSpacer)
	if encodeError := jsonEncoder.Encode(reportEnvelope); encodeError != nil {
		return utils.EmptyString, fmt.Errorf(errorRenderReportFormat, encodeError)
	}
	return renderedBuffer.String(), nil
}

// Write stores the rendered report at outputPath, creating missing parent
// directories and overwriting any existing file.
func Write(outputPath string, renderedReport string) error {
	outputDirectory := filepath.Dir(outputPath)
	if mkdirError := os.MkdirAll(outputDirectory, reportDirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, outputDirectory, mkdirError)
	}
	if writeError := os.WriteFile(outputPath, []byte(renderedReport), reportFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteReportFormat, outputPath, writeError)
	}
	return nil
}

// WriteSummary prints the informational scan summary to writer.
func WriteSummary(writer io.Writer, reportEnvelope types.Report, outputPath string) {
	fmt.Fprintf(writer, summaryScanningFormat, reportEnvelope.Root)
	fmt.Fprintf(writer, summaryProjectFormat, reportEnvelope.ProjectName)
	fmt.Fprintf(writer, summaryOutputFormat, outputPath)
	fmt.Fprintf(writer, summaryCountsFormat, reportEnvelope.Totals.Files, reportEnvelope.Totals.Directories)
	fmt.Fprintf(writer, summaryTotalsFormat, reportEnvelope.Totals.Lines, utils.FormatFileSize(reportEnvelope.Totals.Size))
}
