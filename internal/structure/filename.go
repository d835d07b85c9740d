package structure

import (
	"path/filepath"
	"strings"
)

// structureSuffix marks derived output files so replays and concurrent batches
// land on deterministic names.
const structureSuffix = "_structure"

// AddSuffix inserts marker before the filename's extension. Names already
// carrying the marker pass through unchanged, so repeated derivation is
// idempotent.
func AddSuffix(filename, marker string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	if strings.HasSuffix(stem, marker) {
		return filename
	}
	return stem + marker + ext
}

// DeriveOutputName maps an input file path to its structured output filename:
// the base name without its original extension, with ".json" and the
// structuring suffix applied.
func DeriveOutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return AddSuffix(stem+".json", structureSuffix)
}
