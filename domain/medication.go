package domain

// Medication is a single inventory record. The medication name acts as
// the primary key and lives in the ledger's map, not on the struct.
type Medication struct {
	Price                float64 `json:"price"`
	Quantity             int     `json:"quantity"`
	Expiry               string  `json:"expiry,omitempty"`
	PrescriptionRequired bool    `json:"prescription_required"`
}
