package scan

import (
	"bytes"
	"os"
)

// lineSeparator is the byte counted as a line terminator.
const lineSeparator = byte('\n')

// CountFileLines counts the lines of the file at filePath. Content is treated
// as raw bytes, so invalid encodings never fail the count. A final line
// without a terminator still counts. Any read failure yields zero.
func CountFileLines(filePath string) int {
	data, readError := os.ReadFile(filePath)
	if readError != nil {
		return 0
	}
	return countLines(data)
}

// countLines counts the lines contained in data.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	lineCount := bytes.Count(data, []byte{lineSeparator})
	if data[len(data)-1] != lineSeparator {
		lineCount++
	}
	return lineCount
}
