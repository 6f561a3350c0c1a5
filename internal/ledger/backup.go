package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	apperrors "patrimony/internal/errors"
	"patrimony/internal/models"
)

// ImportDefaults are the values filled into records written before a field
// existed.
type ImportDefaults struct {
	Owner string
}

// Export returns the holdings as an indented JSON array, unchanged.
func Export(hs []models.Holding) ([]byte, error) {
	if hs == nil {
		hs = []models.Holding{}
	}
	return json.MarshalIndent(hs, "", "  ")
}

// ExportFilename is the name of a backup file taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("patrimony-%s.json", now.Format("2006-01-02"))
}

// ParseImport decodes a backup file. The top-level value must be a JSON
// array and holding ids must be unique. Records missing owner, currency or pruCurrency get them filled in;
// fields that are present are never altered, so importing an export again is
// a no-op.
func ParseImport(data []byte, defaults ImportDefaults) ([]models.Holding, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, apperrors.ErrImportMalformed
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.ErrImportNotList
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImportMalformed, err)
	}
	out := make([]models.Holding, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for _, rec := range raw {
		var h models.Holding
		if err := json.Unmarshal(rec, &h); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrImportMalformed, err)
		}
		if seen[h.ID] {
			return nil, apperrors.WithMessage(apperrors.ErrImportMalformed, fmt.Sprintf("Invalid file: holding id %d appears more than once", h.ID))
		}
		seen[h.ID] = true
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrImportMalformed, err)
		}
		migrate(&h, fields, defaults)
		out = append(out, h)
	}
	return out, nil
}

func migrate(h *models.Holding, fields map[string]json.RawMessage, defaults ImportDefaults) {
	if missing(fields, "owner") {
		h.Owner = defaults.Owner
	}
	if missing(fields, "currency") {
		h.Currency = models.CurrencyEUR
	}
	if missing(fields, "pruCurrency") {
		h.PRUCurrency = models.CurrencyEUR
	}
}

func missing(fields map[string]json.RawMessage, key string) bool {
	v, ok := fields[key]
	return !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Import replaces the whole holdings list once confirmed. Rates are kept and
// ids stay unique against everything issued before.
func Import(s State, hs []models.Holding, confirmed bool) (State, error) {
	if !confirmed {
		return s, apperrors.ErrConfirmationRequired
	}
	next := State{Holdings: hs, Rates: s.Rates, LastID: s.LastID}
	if next.Holdings == nil {
		next.Holdings = []models.Holding{}
	}
	if m := maxID(hs); m > next.LastID {
		next.LastID = m
	}
	return next, nil
}
