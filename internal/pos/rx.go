package pos

import "math/rand"

const (
	rxAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	rxLength   = 12
)

// NewPrescriptionID returns a 12-character identifier drawn uniformly
// from A-Z and 0-9. Identifiers are not checked for uniqueness against
// prior sales.
func NewPrescriptionID() string {
	id := make([]byte, rxLength)
	for i := range id {
		id[i] = rxAlphabet[rand.Intn(len(rxAlphabet))]
	}
	return string(id)
}
