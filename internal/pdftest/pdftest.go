// Package pdftest builds small PDF fixtures for tests.
package pdftest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// WriteTextPDF writes a PDF with one page per entry of pages to
// dir/name and returns its path. An empty entry produces a blank page.
func WriteTextPDF(t testing.TB, dir, name string, pages ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 14)
	for _, text := range pages {
		doc.AddPage()
		if text != "" {
			doc.Cell(120, 10, text)
		}
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return path
}

// WriteCorruptPDF writes a file that carries the PDF signature but no
// readable document structure.
func WriteCorruptPDF(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	data := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog /Pages 9 0 R\nthis is not a pdf body\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write corrupt pdf: %v", err)
	}
	return path
}
