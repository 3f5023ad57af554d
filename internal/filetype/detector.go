package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const pdfMIME = "application/pdf"

// Info contains detected file type information
type Info struct {
	MIMEType    string
	Extension   string
	IsPDF       bool
	Description string
}

// Detector sniffs file types from magic bytes
type Detector struct{}

// New creates a new file type detector
func New() *Detector {
	return &Detector{}
}

// Detect detects the actual file type using magic bytes, not the filename
func (d *Detector) Detect(filePath string) (*Info, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := &Info{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
		IsPDF:     mtype.Is(pdfMIME),
	}
	if info.IsPDF {
		info.Description = "PDF document"
	} else {
		info.Description = fmt.Sprintf("not a PDF (%s)", info.MIMEType)
	}

	log.Debug().Str("mime", info.MIMEType).Str("ext", info.Extension).Str("file", filePath).Msg("detected file type")
	return info, nil
}

// IsPDF reports whether the file content is a PDF document
func (d *Detector) IsPDF(filePath string) (bool, error) {
	info, err := d.Detect(filePath)
	if err != nil {
		return false, err
	}
	return info.IsPDF, nil
}

// HasPDFExtension checks the filename only (case-insensitive ".pdf").
func HasPDFExtension(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".pdf")
}
