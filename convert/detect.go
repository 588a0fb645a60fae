package convert

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// enough to recognize any format filetype knows about
const headerSize = 262

// isArchiveFile checks if file is a zip archive. Only files with ".zip"
// extension are looked at, so files like docx are never walked.
func isArchiveFile(fname string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(fname), ".zip") {
		return false, nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(header[:n], "zip"), nil
}

// isStylesheet decides by name whether file should be renamed. Files which
// look like our own output (outExt) are skipped, so repeated runs over the
// same directory do not pick up results of previous runs.
func isStylesheet(name, outExt string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".css") {
		return false
	}
	outExt = strings.ToLower(outExt)
	if outExt != ".css" && strings.HasSuffix(lower, outExt) {
		return false
	}
	return true
}

// isStylesheetInArchive is isStylesheet for archive entries. Entries which
// are not stored or deflated cannot be read by archive/zip.
func isStylesheetInArchive(f *zip.File, outExt string) bool {
	if f.Method != zip.Store && f.Method != zip.Deflate {
		return false
	}
	return isStylesheet(f.Name, outExt)
}
