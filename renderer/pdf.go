package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu soll keine Konfiguration im Home-Verzeichnis anlegen.
	api.DisableConfigDir()
}

// assemblePDF legt jede PNG-Seite als ganze Seite in ein neues PDF.
func assemblePDF(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to assemble")
	}
	readers := make([]io.Reader, len(pages))
	for i, p := range pages {
		readers[i] = bytes.NewReader(p)
	}

	imp := pdfcpu.DefaultImportConfig()
	conf := model.NewDefaultConfiguration()

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, conf); err != nil {
		return nil, fmt.Errorf("pdfcpu import: %w", err)
	}
	return out.Bytes(), nil
}
