package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/m/domain"
	"pharmapos/m/internal/pos"
	"pharmapos/m/internal/store"
)

func newTestServer(t *testing.T, inventory map[string]domain.Medication) (http.Handler, *pos.Ledger) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "inventory.csv"), filepath.Join(dir, "sales.csv"))
	if inventory != nil {
		require.NoError(t, st.SaveInventory(inventory))
	}

	ledger, err := pos.Open(st)
	require.NoError(t, err)
	return New(ledger, st).Router(), ledger
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func aspirinOnly() map[string]domain.Medication {
	return map[string]domain.Medication{
		"Aspirin": {Price: 5.00, Quantity: 10, Expiry: "2024-06-01"},
	}
}

func TestHealth(t *testing.T) {
	handler, _ := newTestServer(t, nil)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSellEndpointSuccess(t *testing.T) {
	handler, ledger := newTestServer(t, aspirinOnly())

	rec := doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Aspirin", "quantity": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	var receipt pos.Receipt
	decodeBody(t, rec, &receipt)
	assert.Equal(t, 15.00, receipt.Total)
	assert.Len(t, receipt.PrescriptionID, 12)

	assert.Equal(t, 7, ledger.Inventory()["Aspirin"].Quantity)
}

func TestSellEndpointInsufficientStock(t *testing.T) {
	handler, ledger := newTestServer(t, aspirinOnly())

	rec := doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Aspirin", "quantity": 20})
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error     string `json:"error"`
		Available int    `json:"available"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 10, body.Available)
	assert.Equal(t, 10, ledger.Inventory()["Aspirin"].Quantity)
}

func TestSellEndpointPrescriptionRequired(t *testing.T) {
	handler, _ := newTestServer(t, map[string]domain.Medication{
		"Oxycodone": {Price: 22.75, Quantity: 5, PrescriptionRequired: true},
	})

	rec := doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Oxycodone", "quantity": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Oxycodone", "quantity": 1, "prescription_id": "RX123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var receipt pos.Receipt
	decodeBody(t, rec, &receipt)
	assert.Equal(t, "RX123", receipt.PrescriptionID)
}

func TestSellEndpointUnknownMedication(t *testing.T) {
	handler, _ := newTestServer(t, nil)

	rec := doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Placebo", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSellEndpointRejectsNonPositiveQuantity(t *testing.T) {
	handler, _ := newTestServer(t, aspirinOnly())

	rec := doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Aspirin", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryLifecycle(t *testing.T) {
	handler, _ := newTestServer(t, nil)

	rec := doJSON(t, handler, http.MethodPost, "/inventory", map[string]any{
		"name": "Ibuprofen", "price": 7.25, "quantity": 80, "expiry": "2026-11-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inventory map[string]domain.Medication
	decodeBody(t, rec, &inventory)
	assert.Equal(t, domain.Medication{Price: 7.25, Quantity: 80, Expiry: "2026-11-15"}, inventory["Ibuprofen"])

	rec = doJSON(t, handler, http.MethodPut, "/inventory/Ibuprofen", map[string]any{
		"price": 6.99, "quantity": 75, "expiry": "2026-11-15",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/inventory/Ibuprofen", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/inventory/Ibuprofen", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUnknownMedication(t *testing.T) {
	handler, _ := newTestServer(t, nil)

	rec := doJSON(t, handler, http.MethodPut, "/inventory/Placebo", map[string]any{"price": 1, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddMedicationRequiresName(t *testing.T) {
	handler, _ := newTestServer(t, nil)

	rec := doJSON(t, handler, http.MethodPost, "/inventory", map[string]any{"price": 1, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSales(t *testing.T) {
	handler, _ := newTestServer(t, aspirinOnly())

	rec := doJSON(t, handler, http.MethodPost, "/sell", map[string]any{"name": "Aspirin", "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sales []domain.Sale `json:"sales"`
		Total float64       `json:"total"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Sales, 1)
	assert.Equal(t, 10.00, body.Total)
}

func TestDashboard(t *testing.T) {
	handler, _ := newTestServer(t, aspirinOnly())

	rec := doJSON(t, handler, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary pos.Summary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 1, summary.Medications)
	assert.Equal(t, 0, summary.Sales)
}

func TestExportInventory(t *testing.T) {
	handler, _ := newTestServer(t, aspirinOnly())

	rec := doJSON(t, handler, http.MethodGet, "/export/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Aspirin,5,10,2024-06-01,False")
}

func TestExportSalesWithoutData(t *testing.T) {
	handler, _ := newTestServer(t, nil)

	rec := doJSON(t, handler, http.MethodGet, "/export/sales", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
