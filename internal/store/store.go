package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"pharmapos/m/domain"
)

// Store persists the inventory and sales datasets as flat comma-delimited
// files without header rows. Every save rewrites the target file in full.
type Store struct {
	inventoryPath string
	salesPath     string
}

// New constructs a Store over the two dataset paths.
func New(inventoryPath, salesPath string) *Store {
	return &Store{inventoryPath: inventoryPath, salesPath: salesPath}
}

// InventoryPath returns the location of the persisted inventory dataset.
func (s *Store) InventoryPath() string { return s.inventoryPath }

// SalesPath returns the location of the persisted sales dataset.
func (s *Store) SalesPath() string { return s.salesPath }

// LoadInventory reads the full inventory dataset. A missing file yields
// an empty inventory. A row that does not parse fails the whole load;
// there is no row-level recovery.
func (s *Store) LoadInventory() (map[string]domain.Medication, error) {
	inventory := make(map[string]domain.Medication)
	rows, err := readRows(s.inventoryPath)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != 5 {
			return nil, fmt.Errorf("inventory row %d: expected 5 fields, got %d", i+1, len(row))
		}
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: bad price %q: %w", i+1, row[1], err)
		}
		quantity, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: bad quantity %q: %w", i+1, row[2], err)
		}
		inventory[row[0]] = domain.Medication{
			Price:                price,
			Quantity:             quantity,
			Expiry:               row[3],
			PrescriptionRequired: row[4] == "True",
		}
	}
	return inventory, nil
}

// LoadSales reads the full sales dataset in ledger order. A missing file
// yields an empty history.
func (s *Store) LoadSales() ([]domain.Sale, error) {
	rows, err := readRows(s.salesPath)
	if err != nil {
		return nil, err
	}
	sales := make([]domain.Sale, 0, len(rows))
	for i, row := range rows {
		if len(row) != 5 {
			return nil, fmt.Errorf("sales row %d: expected 5 fields, got %d", i+1, len(row))
		}
		quantity, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("sales row %d: bad quantity %q: %w", i+1, row[1], err)
		}
		total, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("sales row %d: bad total %q: %w", i+1, row[2], err)
		}
		sales = append(sales, domain.Sale{
			MedicationName: row[0],
			Quantity:       quantity,
			TotalAmount:    total,
			PrescriptionID: row[3],
			SoldAt:         row[4],
		})
	}
	return sales, nil
}

// SaveInventory rewrites the inventory dataset, one row per medication,
// sorted by name so saves are deterministic.
func (s *Store) SaveInventory(inventory map[string]domain.Medication) error {
	names := make([]string, 0, len(inventory))
	for name := range inventory {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(inventory))
	for _, name := range names {
		med := inventory[name]
		rows = append(rows, []string{
			name,
			formatPrice(med.Price),
			strconv.Itoa(med.Quantity),
			med.Expiry,
			boolLiteral(med.PrescriptionRequired),
		})
	}
	return writeRows(s.inventoryPath, rows)
}

// SaveSales rewrites the sales dataset in ledger order.
func (s *Store) SaveSales(sales []domain.Sale) error {
	rows := make([][]string, len(sales))
	for i, sale := range sales {
		rows[i] = []string{
			sale.MedicationName,
			strconv.Itoa(sale.Quantity),
			formatPrice(sale.TotalAmount),
			sale.PrescriptionID,
			sale.SoldAt,
		}
	}
	return writeRows(s.salesPath, rows)
}

// formatPrice keeps the shortest decimal literal that round-trips the
// exact value.
func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func boolLiteral(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func readRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func writeRows(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
