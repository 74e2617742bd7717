package importer

import "fmt"

// DuplicateUploadError rejects byte-identical re-uploads. It carries the
// existing version's id so the caller can navigate to it.
type DuplicateUploadError struct {
	VersionID string
}

func (e *DuplicateUploadError) Error() string {
	return fmt.Sprintf("this file has already been uploaded (version %s)", e.VersionID)
}

// NoValidCollaboratorsError rejects a file whose collaborator block yielded
// no accepted row. Invalid carries the per-row diagnostics verbatim.
type NoValidCollaboratorsError struct {
	Invalid []string
}

func (e *NoValidCollaboratorsError) Error() string {
	return "no valid collaborators found in workbook"
}
