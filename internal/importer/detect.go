package importer

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DetectFormat picks the format from the file extension, sniffing the content
// when the extension is missing or unknown. Legacy .xls workbooks are rejected.
func DetectFormat(name string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return "", &UnsupportedFormatError{Name: name, Detected: "legacy Excel workbook"}
	}

	mt := mimetype.Detect(head)
	if mt.Is(mimeXLSX) {
		return FormatXLSX, nil
	}

	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/csv") || m.Is("text/tab-separated-values") || m.Is("text/plain") {
			return FormatCSV, nil
		}
	}

	return "", &UnsupportedFormatError{Name: name, Detected: mt.String()}
}
