package convert

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("non-zip extension", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.txt")
		if err := os.WriteFile(filePath, []byte("not a zip"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("zip extension but invalid content", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.zip")
		if err := os.WriteFile(filePath, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("empty zip file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "empty.zip")
		if err := os.WriteFile(filePath, nil, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("valid zip file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "valid.ZIP")
		writeZip(t, filePath, map[string]string{"site.css": ".a{}"})

		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Error("isArchiveFile() = false, want true")
		}
	})

	t.Run("non-existent file", func(t *testing.T) {
		if _, err := isArchiveFile(filepath.Join(tmpDir, "missing.zip")); err == nil {
			t.Error("Expected error for non-existent file, got nil")
		}
	})
}

func TestIsStylesheet(t *testing.T) {
	tests := []struct {
		name   string
		outExt string
		want   bool
	}{
		{"site.css", ".min.css", true},
		{"dir/SITE.CSS", ".min.css", true},
		{"site.min.css", ".min.css", false},
		{"site.MIN.css", ".min.css", false},
		{"site.min.css", ".css", true},
		{"site.scss", ".min.css", false},
		{"site.css.map", ".min.css", false},
		{"readme", ".min.css", false},
	}
	for _, tt := range tests {
		if got := isStylesheet(tt.name, tt.outExt); got != tt.want {
			t.Errorf("isStylesheet(%q, %q) = %v, want %v", tt.name, tt.outExt, got, tt.want)
		}
	}
}

func TestIsStylesheetInArchive(t *testing.T) {
	tests := []struct {
		name   string
		method uint16
		want   bool
	}{
		{"a.css", zip.Deflate, true},
		{"a.css", zip.Store, true},
		{"a.css", 14, false}, // LZMA
		{"a.txt", zip.Deflate, false},
	}
	for _, tt := range tests {
		f := &zip.File{FileHeader: zip.FileHeader{Name: tt.name, Method: tt.method}}
		if got := isStylesheetInArchive(f, ".min.css"); got != tt.want {
			t.Errorf("isStylesheetInArchive(%q, %d) = %v, want %v", tt.name, tt.method, got, tt.want)
		}
	}
}
