package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestVaultFlow_CreateReadUpdateDelete(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "vault@test.com", "password123")

	// Create
	body := `{"title":"Email","username":"me@example.com","password":"hunter2","notes":"personal"}`
	rec := app.request("POST", "/api/v1/vault", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create vault item failed: %d %s", rec.Code, rec.Body.String())
	}
	item := parseJSON(t, rec)["item"].(map[string]interface{})
	itemID := item["id"].(string)

	// The list never exposes secrets
	rec = app.request("GET", "/api/v1/vault", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list vault items failed: %d %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); containsAny(body, "hunter2", "personal") {
		t.Fatalf("list response leaked secrets: %s", body)
	}

	// Details decrypt both secrets
	rec = app.request("GET", "/api/v1/vault/"+itemID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get details failed: %d %s", rec.Code, rec.Body.String())
	}
	details := parseJSON(t, rec)
	if details["password"] != "hunter2" {
		t.Errorf("expected decrypted password, got %v", details["password"])
	}
	if details["notes"] != "personal" {
		t.Errorf("expected decrypted notes, got %v", details["notes"])
	}

	// Rotate the password, clear the notes
	body = `{"password":"correct-horse","notes":""}`
	rec = app.request("PUT", "/api/v1/vault/"+itemID, body, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/vault/"+itemID, "", token)
	details = parseJSON(t, rec)
	if details["password"] != "correct-horse" {
		t.Errorf("expected rotated password, got %v", details["password"])
	}
	if details["notes"] != "" {
		t.Errorf("expected cleared notes, got %v", details["notes"])
	}

	// Delete
	rec = app.request("DELETE", "/api/v1/vault/"+itemID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/vault/"+itemID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestVaultFlow_ItemsAreUserScoped(t *testing.T) {
	app := setupApp(t)
	aliceToken, _ := app.registerUser(t, "alice-vault@test.com", "password123")
	bobToken, _ := app.registerUser(t, "bob-vault@test.com", "password123")

	rec := app.request("POST", "/api/v1/vault", `{"title":"Bank","password":"secret"}`, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	itemID := parseJSON(t, rec)["item"].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/v1/vault/"+itemID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's item, got %d", rec.Code)
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
