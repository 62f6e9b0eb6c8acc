package pos

import (
	"fmt"
	"time"

	"pharmapos/m/domain"
)

const expiryLayout = "2006-01-02"

// expiryWindowDays is the horizon used to flag medications nearing
// their expiry date.
const expiryWindowDays = 30

// MedicationRevenue pairs a medication with its summed sale revenue.
type MedicationRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// RevenueByMedication sums sale totals per medication, ordered by first
// appearance in the sales history.
func RevenueByMedication(sales []domain.Sale) []MedicationRevenue {
	index := make(map[string]int)
	out := []MedicationRevenue{}
	for _, sale := range sales {
		i, ok := index[sale.MedicationName]
		if !ok {
			i = len(out)
			index[sale.MedicationName] = i
			out = append(out, MedicationRevenue{Name: sale.MedicationName})
		}
		out[i].Revenue += sale.TotalAmount
	}
	return out
}

// TotalRevenue sums all sale totals.
func TotalRevenue(sales []domain.Sale) float64 {
	var total float64
	for _, sale := range sales {
		total += sale.TotalAmount
	}
	return total
}

// ExpiringSoonCount counts medications whose expiry date is at most 30
// whole days after now. The comparison is <= 30, not a range check, so
// already-expired medications count as well. An unparsable expiry fails
// the whole computation.
func ExpiringSoonCount(inventory map[string]domain.Medication, now time.Time) (int, error) {
	count := 0
	for name, med := range inventory {
		if med.Expiry == "" {
			continue
		}
		expiry, err := time.Parse(expiryLayout, med.Expiry)
		if err != nil {
			return 0, fmt.Errorf("medication %q: bad expiry %q: %w", name, med.Expiry, err)
		}
		if int(expiry.Sub(now).Hours()/24) <= expiryWindowDays {
			count++
		}
	}
	return count, nil
}

// Summary holds the dashboard aggregates.
type Summary struct {
	Medications         int                 `json:"medications"`
	Sales               int                 `json:"sales"`
	TotalRevenue        float64             `json:"total_revenue"`
	ExpiringSoon        int                 `json:"expiring_soon"`
	RevenueByMedication []MedicationRevenue `json:"revenue_by_medication"`
}

// Summary computes the dashboard aggregates as of now without mutating
// any state.
func (l *Ledger) Summary(now time.Time) (Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiring, err := ExpiringSoonCount(l.inventory, now)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Medications:         len(l.inventory),
		Sales:               len(l.sales),
		TotalRevenue:        TotalRevenue(l.sales),
		ExpiringSoon:        expiring,
		RevenueByMedication: RevenueByMedication(l.sales),
	}, nil
}
