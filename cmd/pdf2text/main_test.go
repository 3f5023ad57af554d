package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/local/pdf2text/internal/batch"
	"github.com/local/pdf2text/internal/pdftest"
)

func quietEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("SEND_LOGS_TO_AXIOM", "0")
	t.Setenv("PDF2TEXT_METHOD", "")
	t.Setenv("PDF2TEXT_JOBS", "")
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSingleFileSimpleMethod(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	path := pdftest.WriteTextPDF(t, dir, "hello.pdf", "Hello World")
	metricsFile := filepath.Join(dir, "run.prom")

	code, out, _ := runCLI(t, path, "-m", "pypdf2", "--metrics-file", metricsFile)
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "EXTRACTED TEXT:")
	require.Contains(t, out, "Hello World")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `pdf2text_backend_invocations_total{backend="simple",result="success"} 1`)
	require.NotContains(t, string(prom), `backend="structured"`)
}

func TestSingleFileToOutput(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	path := pdftest.WriteTextPDF(t, dir, "report.pdf", "Quarterly numbers")
	dest := filepath.Join(dir, "nested", "report.txt")

	code, out, _ := runCLI(t, path, "-o", dest)
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "Successfully converted to: "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Contains(t, string(data), "Quarterly numbers")
}

func TestSingleFileFailure(t *testing.T) {
	quietEnv(t)
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not really a pdf"), 0o644))

	code, _, errOut := runCLI(t, path)
	require.Equal(t, exitFailed, code)
	require.Contains(t, errOut, "file must be a PDF")
}

func TestBatchPartialFailure(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	pdftest.WriteTextPDF(t, dir, "good.pdf", "Good document")
	pdftest.WriteCorruptPDF(t, dir, "broken.pdf")
	report := filepath.Join(t.TempDir(), "report.json")

	code, out, errOut := runCLI(t, dir, "--no-progress", "-v", "--report", report)
	require.Equal(t, exitFailed, code)
	require.Contains(t, out, "Found 2 PDF files")
	require.Contains(t, out, "Successfully converted: 1/2")
	require.Contains(t, out, "Failed: 1")
	require.Contains(t, out, filepath.Join(dir, "broken.pdf"))
	require.Contains(t, errOut, "conversion failed")

	data, err := os.ReadFile(filepath.Join(dir, "good.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Good document")
	_, err = os.Stat(filepath.Join(dir, "broken.txt"))
	require.True(t, os.IsNotExist(err))

	var sum batch.Summary
	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &sum))
	require.Equal(t, 1, sum.Succeeded)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, batch.StatusError, sum.Results[0].Status)
	require.Contains(t, sum.Results[0].Error, "method auto")
	require.Contains(t, sum.Results[0].Error, "structured extraction failed")
	require.Contains(t, sum.Results[0].Error, "simple extraction failed")
}

func TestStructuredMethodRejectsCorruptFile(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	broken := pdftest.WriteCorruptPDF(t, dir, "broken.pdf")

	code, out, _ := runCLI(t, broken, "-m", "pdfplumber")
	require.Equal(t, exitFailed, code)
	require.NotContains(t, out, "EXTRACTED TEXT:")

	pdftest.WriteTextPDF(t, dir, "good.pdf", "Good document")
	code, out, _ = runCLI(t, dir, "-m", "pdfplumber", "--no-progress")
	require.Equal(t, exitFailed, code)
	require.Contains(t, out, "Successfully converted: 1/2")
	require.FileExists(t, filepath.Join(dir, "good.txt"))
	_, err := os.Stat(filepath.Join(dir, "broken.txt"))
	require.True(t, os.IsNotExist(err))
}

func TestBatchRecursiveToOutputDir(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "txt")
	pdftest.WriteTextPDF(t, dir, "top.pdf", "Top level")
	pdftest.WriteTextPDF(t, filepath.Join(dir, "sub"), "inner.pdf", "Inner level")

	code, stdout, _ := runCLI(t, dir, "-r", "-j", "2", "-o", out, "--no-progress")
	require.Equal(t, exitOK, code)
	require.Contains(t, stdout, "Successfully converted: 2/2")
	require.FileExists(t, filepath.Join(out, "top.txt"))
	require.FileExists(t, filepath.Join(out, "sub", "inner.txt"))
}

func TestEmptyDirectory(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	code, out, _ := runCLI(t, dir)
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "No PDF files found in "+dir)
}

func TestUsageErrors(t *testing.T) {
	quietEnv(t)
	code, _, errOut := runCLI(t, filepath.Join(t.TempDir(), "missing.pdf"))
	require.Equal(t, exitUsage, code)
	require.Contains(t, errOut, "invalid path")

	code, _, errOut = runCLI(t, t.TempDir(), "-m", "ocr")
	require.Equal(t, exitUsage, code)
	require.Contains(t, errOut, "unknown extraction method")

	code, _, _ = runCLI(t)
	require.Equal(t, exitUsage, code)
}
