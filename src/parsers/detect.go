package parsers

import (
	"bufio"
	"io"
	"strings"
)

// FileType classifies an uploaded CSV by its header shape.
type FileType string

const (
	FileTypeRobinhood     FileType = "robinhood"
	FileTypeChaseChecking FileType = "chase-checking"
	FileTypeChaseCredit   FileType = "chase-credit"
	FileTypeUnknown       FileType = "unknown"
)

// headerSniffLimit caps how much of the file detection may read. Only the
// header line matters; the body is never parsed here.
const headerSniffLimit = 1024

// DetectFileType reads at most the first 1KB of the stream and classifies
// the export by its header line. Callers that need to re-read the stream
// should hand in a TeeReader or a fresh reader.
func DetectFileType(r io.Reader) FileType {
	limited := io.LimitReader(r, headerSniffLimit)
	scanner := bufio.NewScanner(limited)
	if !scanner.Scan() {
		return FileTypeUnknown
	}
	return DetectHeaderLine(scanner.Text())
}

// DetectHeaderLine classifies a single CSV header line. Pure function so the
// upload handler and tests can call it on sniffed bytes directly.
func DetectHeaderLine(line string) FileType {
	header := strings.ToLower(line)

	containsAll := func(tokens ...string) bool {
		for _, tok := range tokens {
			if !strings.Contains(header, tok) {
				return false
			}
		}
		return true
	}

	switch {
	case containsAll("activity date", "process date", "trans code"):
		return FileTypeRobinhood
	case containsAll("details", "posting date", "balance"):
		return FileTypeChaseChecking
	case containsAll("transaction date", "post date", "category"):
		return FileTypeChaseCredit
	default:
		return FileTypeUnknown
	}
}
