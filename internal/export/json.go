package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/saati/internal/engine"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Report     engine.Report `json:"report"`
}

// WriteReportJSON writes rep as indented JSON stamped with now.
func WriteReportJSON(w io.Writer, rep engine.Report, now time.Time) error {
	data, err := json.MarshalIndent(jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Report:     rep,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func ReportToJSON(rep engine.Report, path string) error {
	var buf bytes.Buffer
	if err := WriteReportJSON(&buf, rep, time.Now()); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
