package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func (app *testApp) createEvent(t *testing.T, token, title, day string) string {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"day":%q,"start_time":"09:00","end_time":"10:00"}`, title, day)
	rec := app.request("POST", "/api/v1/events", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	event := result["event"].(map[string]interface{})
	return event["id"].(string)
}

func (app *testApp) connectICS(t *testing.T, token string) {
	t.Helper()
	rec := app.request("POST", "/api/v1/calendar/accounts/ics/connect", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("connect ics failed: %d %s", rec.Code, rec.Body.String())
	}
}

func (app *testApp) syncAll(t *testing.T, token string) []interface{} {
	t.Helper()
	rec := app.request("POST", "/api/v1/calendar/sync", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["failures"].([]interface{})
}

// waitForRemoteCount polls the in-memory provider until the background
// push settles on the expected count.
func (app *testApp) waitForRemoteCount(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if app.Provider.count() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d remote events, got %d", want, app.Provider.count())
}

func TestCalendarFlow_ConnectAndSync(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "cal@test.com", "password123")

	// Event created before any account is connected: nothing to push yet
	app.createEvent(t, token, "Dentist", "2026-09-10")
	if app.Provider.count() != 0 {
		t.Fatalf("expected no remote events before connecting, got %d", app.Provider.count())
	}

	app.connectICS(t, token)

	rec := app.request("GET", "/api/v1/calendar/accounts", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list accounts failed: %d %s", rec.Code, rec.Body.String())
	}
	accounts := parseJSON(t, rec)["accounts"].([]interface{})
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	account := accounts[0].(map[string]interface{})
	if account["state"] != "signed_in" {
		t.Errorf("expected signed_in, got %v", account["state"])
	}
	if account["sync_enabled"] != true {
		t.Errorf("expected sync enabled by default")
	}

	if failures := app.syncAll(t, token); len(failures) != 0 {
		t.Fatalf("expected clean sync, got failures: %v", failures)
	}
	app.waitForRemoteCount(t, 1)

	// A second sync updates in place rather than duplicating
	if failures := app.syncAll(t, token); len(failures) != 0 {
		t.Fatalf("expected clean second sync, got failures: %v", failures)
	}
	app.waitForRemoteCount(t, 1)
}

func TestCalendarFlow_DisabledSyncIsSilentNoOp(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "disabled@test.com", "password123")

	app.createEvent(t, token, "Standup", "2026-09-01")
	app.connectICS(t, token)

	rec := app.request("PUT", "/api/v1/calendar/accounts/ics/sync-enabled", `{"enabled":false}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle failed: %d %s", rec.Code, rec.Body.String())
	}

	// Disabled account: no push, no failure either
	if failures := app.syncAll(t, token); len(failures) != 0 {
		t.Fatalf("disabled sync should not report failures, got %v", failures)
	}
	if app.Provider.count() != 0 {
		t.Fatalf("disabled sync should not push, got %d remote events", app.Provider.count())
	}

	// Re-enabled, the same event flows through
	rec = app.request("PUT", "/api/v1/calendar/accounts/ics/sync-enabled", `{"enabled":true}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-enable failed: %d %s", rec.Code, rec.Body.String())
	}
	if failures := app.syncAll(t, token); len(failures) != 0 {
		t.Fatalf("expected clean sync after re-enable, got %v", failures)
	}
	app.waitForRemoteCount(t, 1)
}

func TestCalendarFlow_SignedOutSyncFails(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "signedout@test.com", "password123")

	app.createEvent(t, token, "Gym", "2026-09-02")
	app.connectICS(t, token)

	rec := app.request("DELETE", "/api/v1/calendar/accounts/ics", "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("sign out failed: %d %s", rec.Code, rec.Body.String())
	}

	// The account row survives sign-out with its toggle still on, so a
	// sync now surfaces a per-item failure instead of silently skipping.
	failures := app.syncAll(t, token)
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure for the signed-out account, got %d", len(failures))
	}
	failure := failures[0].(map[string]interface{})
	if failure["provider"] != "ics" {
		t.Errorf("expected provider ics in failure, got %v", failure["provider"])
	}
}

func TestCalendarFlow_DeleteEventRemovesRemote(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "delete@test.com", "password123")

	eventID := app.createEvent(t, token, "One-off", "2026-09-03")
	app.connectICS(t, token)

	if failures := app.syncAll(t, token); len(failures) != 0 {
		t.Fatalf("expected clean sync, got %v", failures)
	}
	app.waitForRemoteCount(t, 1)

	rec := app.request("DELETE", "/api/v1/events/"+eventID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete event failed: %d %s", rec.Code, rec.Body.String())
	}
	app.waitForRemoteCount(t, 0)
}

func TestCalendarFlow_AuthURLForUnknownProvider(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "unknown@test.com", "password123")

	rec := app.request("GET", "/api/v1/calendar/accounts/outlook/auth-url", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown provider, got %d: %s", rec.Code, rec.Body.String())
	}
}
