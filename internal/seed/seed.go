package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"pharmapos/m/domain"
	"pharmapos/m/internal/pos"
)

// LoadStarterInventory ingests a starter-inventory CSV (with header row)
// into an empty ledger. Rows that do not parse are logged and skipped;
// the seed asset is best-effort, unlike the persisted datasets.
func LoadStarterInventory(ledger *pos.Ledger, csvPath string) {
	if csvPath == "" || len(ledger.Inventory()) > 0 {
		return
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load starter inventory %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read starter inventory header: %v", err)
		return
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read starter inventory row: %v", err)
			continue
		}
		if len(record) < 5 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			log.Printf("unable to parse price for %s: %v", name, err)
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			log.Printf("unable to parse quantity for %s: %v", name, err)
			continue
		}

		med := domain.Medication{
			Price:                price,
			Quantity:             quantity,
			Expiry:               strings.TrimSpace(record[3]),
			PrescriptionRequired: strings.TrimSpace(record[4]) == "True",
		}
		if err := ledger.AddMedication(name, med); err != nil {
			log.Printf("unable to add starter medication %s: %v", name, err)
			continue
		}
		rows++
	}

	if rows > 0 {
		log.Printf("seeded starter inventory with %d rows", rows)
	}
}
