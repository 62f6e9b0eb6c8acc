package domain

// Sale is an append-only ledger entry. Once recorded it is never
// mutated; the slice order is the canonical sales history.
type Sale struct {
	MedicationName string  `json:"medication_name"`
	Quantity       int     `json:"quantity"`
	TotalAmount    float64 `json:"total_amount"`
	PrescriptionID string  `json:"prescription_id"`
	SoldAt         string  `json:"sold_at"`
}
