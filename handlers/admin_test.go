package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"loyaltyhub-backend/ledger"
	"loyaltyhub-backend/models"

	"github.com/google/uuid"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)

	_, customerToken := seedUser(db, "9876543210", models.RoleCustomer, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/admin/vendors", nil, customerToken))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on admin route, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/admin/vendors", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAdminRegisterAndListVendors(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)

	_, token := seedUser(db, "9999999999", models.RoleAdmin, nil)

	body := map[string]interface{}{"name": "Chai Point", "category": "Cafe", "phone": "9000000001"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/admin/vendors", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	vendor := parseResponse(w)["vendor"].(map[string]interface{})
	if vendor["authorized_phone"] != "9000000001" {
		t.Errorf("expected authorized phone persisted, got %v", vendor["authorized_phone"])
	}
	if vendor["qr_url"] == "" {
		t.Error("expected QR payload generated at registration")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/admin/vendors", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	vendors := parseResponse(w)["vendors"].([]interface{})
	if len(vendors) != 1 {
		t.Fatalf("expected 1 vendor listed, got %d", len(vendors))
	}
}

func TestAdminRegisterVendorRejectsBadInput(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)

	_, token := seedUser(db, "9999999999", models.RoleAdmin, nil)

	// Malformed phone.
	body := map[string]interface{}{"name": "Chai Point", "phone": "12345"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/admin/vendors", body, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad phone, got %d", w.Code)
	}

	// Missing name.
	body = map[string]interface{}{"phone": "9000000001"}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/admin/vendors", body, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}

	// Duplicate phone.
	seedTestVendor(db, "Burger Hub", "9000000002")
	body = map[string]interface{}{"name": "Copycat", "phone": "9000000002"}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/admin/vendors", body, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate phone, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRevokeVendor(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)

	_, token := seedUser(db, "9999999999", models.RoleAdmin, nil)
	vendor := seedTestVendor(db, "Chai Point", "9000000001")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("DELETE", "/api/admin/vendors/"+vendor.ID.String(), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Revoked vendors disappear from the live registry but the row survives
	// as a tombstone.
	var live int64
	db.Model(&models.Vendor{}).Count(&live)
	if live != 0 {
		t.Errorf("expected revoked vendor hidden, got %d live", live)
	}
	var all int64
	db.Unscoped().Model(&models.Vendor{}).Count(&all)
	if all != 1 {
		t.Errorf("expected tombstone row retained, got %d", all)
	}

	// Second revoke and unknown ids.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("DELETE", "/api/admin/vendors/"+vendor.ID.String(), nil, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on double revoke, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("DELETE", "/api/admin/vendors/"+uuid.NewString(), nil, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("DELETE", "/api/admin/vendors/not-a-uuid", nil, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestRevokePreservesTransactionHistory(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)

	_, token := seedUser(db, "9999999999", models.RoleAdmin, nil)
	vendor := seedTestVendor(db, "Chai Point", "9000000001")
	customer, _ := seedUser(db, "9876543210", models.RoleCustomer, nil)

	engine := &ledger.Engine{DB: db}
	if _, err := engine.RecordBilling(customer.ID, vendor, 250); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("DELETE", "/api/admin/vendors/"+vendor.ID.String(), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	balance, err := engine.Balance(customer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 25 {
		t.Errorf("expected earned points to survive revocation, got %d", balance)
	}
}

func TestAdminSummary(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)

	_, token := seedUser(db, "9999999999", models.RoleAdmin, nil)
	vendor := seedTestVendor(db, "Chai Point", "9000000001")
	customer, _ := seedUser(db, "9876543210", models.RoleCustomer, nil)

	engine := &ledger.Engine{DB: db}
	if _, err := engine.RecordBilling(customer.ID, vendor, 250); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.RecordCheckin(customer.ID, vendor); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/admin/summary", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	summary := resp["summary"].(map[string]interface{})
	if summary["total_vendors"].(float64) != 1 {
		t.Errorf("expected 1 vendor, got %v", summary["total_vendors"])
	}
	if summary["total_txs"].(float64) != 2 {
		t.Errorf("expected 2 transactions, got %v", summary["total_txs"])
	}
	if summary["total_points"].(float64) != 45 {
		t.Errorf("expected 45 total points, got %v", summary["total_points"])
	}
	if resp["insights"] == "" {
		t.Error("expected insight text in summary")
	}
}
