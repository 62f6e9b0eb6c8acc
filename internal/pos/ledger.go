package pos

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pharmapos/m/domain"
	"pharmapos/m/internal/store"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	// ErrNotFound reports that no medication exists under the given name.
	ErrNotFound = errors.New("medication not found")
	// ErrPrescriptionRequired reports a sale attempt on a controlled
	// medication without a prescription identifier.
	ErrPrescriptionRequired = errors.New("prescription id required")
)

// InsufficientStockError carries how many units were actually available.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

// Receipt describes a completed sale.
type Receipt struct {
	Total          float64     `json:"total"`
	PrescriptionID string      `json:"prescription_id"`
	Sale           domain.Sale `json:"sale"`
}

// Ledger owns the in-memory inventory map and the append-only sales
// history. Every mutating operation runs under one lock and flushes the
// touched dataset before returning, so the stock check and the decrement
// inside Sell are atomic with respect to other callers.
type Ledger struct {
	mu        sync.Mutex
	store     *store.Store
	inventory map[string]domain.Medication
	sales     []domain.Sale
	now       func() time.Time
}

// Open loads both datasets from the store and returns a ready ledger.
func Open(st *store.Store) (*Ledger, error) {
	inventory, err := st.LoadInventory()
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	sales, err := st.LoadSales()
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return &Ledger{store: st, inventory: inventory, sales: sales, now: time.Now}, nil
}

// AddMedication inserts or overwrites the record for name. Last write
// wins; no field validation happens here.
func (l *Ledger) AddMedication(name string, med domain.Medication) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inventory[name] = med
	return l.store.SaveInventory(l.inventory)
}

// UpdateMedication overwrites price, quantity and expiry of an existing
// record. The prescription flag is left untouched.
func (l *Ledger) UpdateMedication(name string, price float64, quantity int, expiry string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	med, ok := l.inventory[name]
	if !ok {
		return ErrNotFound
	}
	med.Price = price
	med.Quantity = quantity
	med.Expiry = expiry
	l.inventory[name] = med
	return l.store.SaveInventory(l.inventory)
}

// DeleteMedication removes the record for name. Past sales keep the name
// in the history regardless.
func (l *Ledger) DeleteMedication(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.inventory[name]; !ok {
		return ErrNotFound
	}
	delete(l.inventory, name)
	return l.store.SaveInventory(l.inventory)
}

// Sell executes a sale. Decision order: unknown name, then stock, then
// prescription requirement; only then is the sale recorded, stock
// decremented and both datasets flushed. The refusals are ordinary
// control-flow variants for the caller to branch on.
func (l *Ledger) Sell(name string, quantity int, prescriptionID string) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	med, ok := l.inventory[name]
	if !ok {
		return Receipt{}, ErrNotFound
	}
	if med.Quantity < quantity {
		return Receipt{}, &InsufficientStockError{Available: med.Quantity}
	}
	if med.PrescriptionRequired && prescriptionID == "" {
		return Receipt{}, ErrPrescriptionRequired
	}

	total := med.Price * float64(quantity)
	if prescriptionID == "" {
		prescriptionID = NewPrescriptionID()
	}
	sale := domain.Sale{
		MedicationName: name,
		Quantity:       quantity,
		TotalAmount:    total,
		PrescriptionID: prescriptionID,
		SoldAt:         l.now().Format(timestampLayout),
	}
	l.sales = append(l.sales, sale)
	l.decrement(name, quantity)

	if err := l.store.SaveSales(l.sales); err != nil {
		return Receipt{}, fmt.Errorf("save sales: %w", err)
	}
	if err := l.store.SaveInventory(l.inventory); err != nil {
		return Receipt{}, fmt.Errorf("save inventory: %w", err)
	}
	return Receipt{Total: total, PrescriptionID: prescriptionID, Sale: sale}, nil
}

// decrement assumes the caller holds the lock and has verified stock.
func (l *Ledger) decrement(name string, quantity int) {
	med := l.inventory[name]
	med.Quantity -= quantity
	l.inventory[name] = med
}

// Inventory returns a copy of the current stock keyed by medication name.
func (l *Ledger) Inventory() map[string]domain.Medication {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make(map[string]domain.Medication, len(l.inventory))
	for name, med := range l.inventory {
		snapshot[name] = med
	}
	return snapshot
}

// Sales returns a copy of the sales history in ledger order.
func (l *Ledger) Sales() []domain.Sale {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Sale(nil), l.sales...)
}
