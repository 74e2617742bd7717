package parser

import "time"

// Metadata is the project-level block of the fiche. Missing fields stay at
// their zero/nil defaults; validation happens downstream, not here.
type Metadata struct {
	Filiale        string     `json:"filiale"`
	Reference      string     `json:"reference"`
	Demandeur      *string    `json:"demandeur"`
	Titre          *string    `json:"titre"`
	Contexte       *string    `json:"contexte"`
	ChargeTotale   float64    `json:"chargeTotale"`
	DateDebut      *time.Time `json:"dateDebut"`
	DateMEP        *time.Time `json:"dateMEP"`
	DateValidation *time.Time `json:"dateValidation"`
}

// resolveMetadata extracts the fixed and label-relative metadata fields.
func resolveMetadata(r *CellReader) Metadata {
	meta := Metadata{
		Filiale:      r.String(cellFiliale),
		Reference:    r.String(cellReference),
		ChargeTotale: r.Float(cellChargeTotale),
	}

	if v := r.FindRightOfLabel(labelDemandeur, labelScanWidth); v != "" {
		meta.Demandeur = &v
	}
	if v := r.String(cellTitre); v != "" {
		meta.Titre = &v
	}
	if v := r.String(cellContexte); v != "" {
		meta.Contexte = &v
	}

	meta.DateDebut = r.Date(cellDateDebut)
	meta.DateMEP = r.Date(cellDateMEP)
	meta.DateValidation = CoerceDate(r.FindRightOfLabel(labelDateValid, labelScanWidth))

	return meta
}
