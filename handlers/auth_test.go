package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"loyaltyhub-backend/models"
)

func TestLoginCustomerSelfOnboarding(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{"phone": "9876543210", "role": "CUSTOMER"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("expected token in response")
	}
	if resp["refresh_token"] == nil || resp["refresh_token"] == "" {
		t.Error("expected refresh token in response")
	}
	user := resp["user"].(map[string]interface{})
	if user["role"] != models.RoleCustomer {
		t.Errorf("expected role CUSTOMER, got %v", user["role"])
	}
	if user["phone"] != "9876543210" {
		t.Errorf("expected normalized phone, got %v", user["phone"])
	}

	// The session user was persisted.
	var count int64
	db.Model(&models.User{}).Where("phone = ?", "9876543210").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 user created, got %d", count)
	}
}

func TestLoginDefaultsToCustomerRole(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9876543210"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	user := parseResponse(w)["user"].(map[string]interface{})
	if user["role"] != models.RoleCustomer {
		t.Errorf("expected default role CUSTOMER, got %v", user["role"])
	}
}

func TestLoginReusesExistingUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9876543210"}))
		if w.Code != http.StatusOK {
			t.Fatalf("login %d: expected 200, got %d", i, w.Code)
		}
	}

	var count int64
	db.Model(&models.User{}).Where("phone = ?", "9876543210").Count(&count)
	if count != 1 {
		t.Errorf("expected re-login to reuse the user row, got %d rows", count)
	}
}

func TestLoginShortPhoneRejected(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	for _, role := range []string{models.RoleCustomer, models.RoleVendor, models.RoleAdmin} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "12345", "role": role}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("role %s: expected 400 for 5-digit phone, got %d", role, w.Code)
		}
	}
}

func TestLoginVendorRequiresRegistration(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	// Not registered: denied.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9876543210", "role": "VENDOR"}))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unregistered merchant phone, got %d: %s", w.Code, w.Body.String())
	}

	// Registered: authorized with vendor binding.
	vendor := seedTestVendor(db, "Chai Point", "9876543210")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9876543210", "role": "VENDOR"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after registration, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	user := resp["user"].(map[string]interface{})
	if user["vendor_id"] != vendor.ID.String() {
		t.Errorf("expected vendor binding %s, got %v", vendor.ID, user["vendor_id"])
	}
	vendorInfo := resp["vendor"].(map[string]interface{})
	if vendorInfo["name"] != "Chai Point" {
		t.Errorf("expected vendor profile in response, got %v", vendorInfo)
	}
}

func TestLoginAdminAnyWellFormedPhone(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9999999999", "role": "ADMIN"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user := parseResponse(w)["user"].(map[string]interface{})
	if user["role"] != models.RoleAdmin {
		t.Errorf("expected ADMIN role, got %v", user["role"])
	}
}

func TestRefreshToken(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9876543210"}))
	if w.Code != http.StatusOK {
		t.Fatal(w.Body.String())
	}
	refresh := parseResponse(w)["refresh_token"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", map[string]string{"refresh_token": refresh}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseResponse(w)["token"] == nil {
		t.Error("expected new access token")
	}
}

func TestRefreshUnknownTokenRejected(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", map[string]string{"refresh_token": "not-a-token"}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"phone": "9876543210"}))
	resp := parseResponse(w)
	token := resp["token"].(string)
	refresh := resp["refresh_token"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/auth/logout", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// The stored refresh token no longer works.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", map[string]string{"refresh_token": refresh}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestGetProfile(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	_, token := seedUser(db, "9876543210", models.RoleCustomer, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/auth/profile", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["phone"] != "9876543210" {
		t.Errorf("expected profile phone, got %v", resp["phone"])
	}
}
