package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fichetrack/internal/model"
)

// ErrSheetNotFound means the workbook has no "Fiche Instruction" sheet.
// Ingestion aborts on it before anything is persisted.
var ErrSheetNotFound = fmt.Errorf("sheet %q not found in workbook", SheetName)

// Result is the full parse of one uploaded fiche.
type Result struct {
	Metadata             Metadata                   `json:"metadata"`
	Collaborators        []model.CollaboratorCharge `json:"collaborators"`
	Planning             []model.PlanningPhase      `json:"planning"`
	FileHash             string                     `json:"fileHash"`
	InvalidCollaborators []string                   `json:"invalidCollaborators,omitempty"`
}

// HashBytes computes the content identity of an upload: SHA-256 over the
// raw bytes, hex-encoded. Byte-identical uploads always collide, which is
// exactly the duplicate-detection contract.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Parse reads one fiche workbook from raw bytes. Per-row collaborator
// problems are diagnostics on the Result, not errors; the only parse-level
// failures are an unreadable workbook and a missing sheet.
func Parse(data []byte) (*Result, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	index, err := file.GetSheetIndex(SheetName)
	if err != nil || index < 0 {
		return nil, ErrSheetNotFound
	}

	reader := NewCellReader(file, SheetName)

	collaborators, invalid := parseCollaborators(reader)

	return &Result{
		Metadata:             resolveMetadata(reader),
		Collaborators:        collaborators,
		Planning:             parsePlanning(reader),
		FileHash:             HashBytes(data),
		InvalidCollaborators: invalid,
	}, nil
}
