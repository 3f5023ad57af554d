// Package pdfinfo inspects PDF files with pdfcpu before extraction: page
// counts, relaxed structural validation and decryption of protected files.
package pdfinfo

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

// PageCount returns the number of pages of the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}

// Validate runs pdfcpu's relaxed validation against path.
func Validate(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("pdf validation failed: %w", err)
	}
	return nil
}

// Encrypted reports whether path carries an encryption dictionary. A file
// pdfcpu cannot open without a password is reported as encrypted.
func Encrypted(path string) bool {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("pdf unreadable without password")
		return true
	}
	return ctx.Encrypt != nil
}

// Decrypt writes a decrypted copy of path using password as both user and
// owner password. The caller removes the returned temp file with cleanup.
func Decrypt(path, password string) (string, func(), error) {
	f, err := os.CreateTemp("", "pdfdec-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp: %w", err)
	}
	out := f.Name()
	_ = f.Close()
	cleanup := func() { _ = os.Remove(out) }

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	if err := api.DecryptFile(path, out, conf); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("decrypt %s: %w", path, err)
	}
	log.Debug().Str("file", path).Str("tmp", out).Msg("decrypted pdf to temp")
	return out, cleanup, nil
}
