package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daybook/internal/calendar"
	apperrors "daybook/internal/errors"
	"daybook/internal/recurrence"
)

// fakeTokens is an in-memory TokenSource counting refreshes.
type fakeTokens struct {
	access       string
	refreshed    string
	refreshCalls int
	refreshErr   error
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	return f.access, nil
}

func (f *fakeTokens) Refresh(context.Context) (string, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.access = f.refreshed
	return f.refreshed, nil
}

func timedEvent() calendar.Event {
	start := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	return calendar.Event{
		Title:    "Dentist",
		Notes:    "bring insurance card",
		Start:    start,
		End:      start.Add(time.Hour),
		TimeZone: "UTC",
	}
}

func TestCreatePayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/calendars/primary/events" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"id":"remote-123"}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)

	ev := timedEvent()
	minutes := 15
	ev.ReminderMinutes = &minutes
	rule, _ := recurrence.New(recurrence.Weekly, nil)
	ev.Recurrence = rule

	id, err := c.Create(context.Background(), ev)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "remote-123" {
		t.Errorf("expected remote-123, got %s", id)
	}

	if got["summary"] != "Dentist" {
		t.Errorf("expected summary Dentist, got %v", got["summary"])
	}
	start := got["start"].(map[string]any)
	if start["dateTime"] != "2026-03-10T09:30:00Z" || start["timeZone"] != "UTC" {
		t.Errorf("unexpected start payload: %v", start)
	}

	rem := got["reminders"].(map[string]any)
	if rem["useDefault"] != false {
		t.Error("expected useDefault false")
	}
	override := rem["overrides"].([]any)[0].(map[string]any)
	if override["method"] != "popup" || override["minutes"] != float64(15) {
		t.Errorf("unexpected reminder override: %v", override)
	}

	rec := got["recurrence"].([]any)
	if rec[0] != "RRULE:FREQ=WEEKLY" {
		t.Errorf("unexpected recurrence: %v", rec)
	}
}

func TestCreateAllDayPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, `{"id":"remote-456"}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)

	day := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	_, err := c.Create(context.Background(), calendar.Event{
		Title:  "Holiday",
		Start:  day,
		End:    day.AddDate(0, 0, 1),
		AllDay: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	start := got["start"].(map[string]any)
	end := got["end"].(map[string]any)
	if start["date"] != "2026-07-04" || end["date"] != "2026-07-05" {
		t.Errorf("expected whole-date start/end, got %v / %v", start, end)
	}
	if _, ok := start["dateTime"]; ok {
		t.Error("all-day events must not carry a dateTime")
	}
}

func TestRefreshRetryOn401(t *testing.T) {
	t.Run("refresh_succeeds", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"id":"remote-789"}`)
		}))
		defer srv.Close()

		tokens := &fakeTokens{access: "stale", refreshed: "fresh"}
		c := NewClientWithBaseURL(tokens, srv.URL)

		id, err := c.Create(context.Background(), timedEvent())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id != "remote-789" {
			t.Errorf("expected remote-789, got %s", id)
		}
		if tokens.refreshCalls != 1 {
			t.Errorf("expected exactly one refresh, got %d", tokens.refreshCalls)
		}
		if calls != 2 {
			t.Errorf("expected two requests, got %d", calls)
		}
	})

	t.Run("second_401_is_terminal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		tokens := &fakeTokens{access: "stale", refreshed: "still-bad"}
		c := NewClientWithBaseURL(tokens, srv.URL)

		_, err := c.Create(context.Background(), timedEvent())
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != "NOT_AUTHENTICATED" {
			t.Fatalf("expected NOT_AUTHENTICATED, got %v", err)
		}
		if tokens.refreshCalls != 1 {
			t.Errorf("expected exactly one refresh, got %d", tokens.refreshCalls)
		}
	})

	t.Run("refresh_failure_is_terminal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		tokens := &fakeTokens{access: "stale", refreshErr: errors.New("revoked")}
		c := NewClientWithBaseURL(tokens, srv.URL)

		_, err := c.Create(context.Background(), timedEvent())
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != "NOT_AUTHENTICATED" {
			t.Fatalf("expected NOT_AUTHENTICATED, got %v", err)
		}
	})
}

func TestExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"remote-1","status":"confirmed"}`)
		}))
		defer srv.Close()

		c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)
		ok, err := c.Exists(context.Background(), "remote-1")
		if err != nil || !ok {
			t.Errorf("expected true/nil, got %v/%v", ok, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)
		ok, err := c.Exists(context.Background(), "remote-1")
		if err != nil || ok {
			t.Errorf("expected false/nil, got %v/%v", ok, err)
		}
	})

	t.Run("cancelled_counts_as_gone", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"remote-1","status":"cancelled"}`)
		}))
		defer srv.Close()

		c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)
		ok, err := c.Exists(context.Background(), "remote-1")
		if err != nil || ok {
			t.Errorf("expected false/nil, got %v/%v", ok, err)
		}
	})
}

func TestDeleteTreatsGoneAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)
	if err := c.Delete(context.Background(), "remote-1"); err != nil {
		t.Errorf("expected nil for already-deleted remote, got %v", err)
	}
}

func TestListQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("singleEvents") != "true" || q.Get("orderBy") != "startTime" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("timeMin") == "" || q.Get("timeMax") == "" {
			t.Error("expected timeMin and timeMax")
		}
		fmt.Fprint(w, `{"items":[
			{"id":"a","summary":"Standup","start":{"dateTime":"2026-03-10T09:00:00Z"},"end":{"dateTime":"2026-03-10T09:15:00Z"},"recurrence":["RRULE:FREQ=DAILY"]},
			{"id":"b","summary":"Holiday","start":{"date":"2026-07-04"},"end":{"date":"2026-07-05"}}
		]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(&fakeTokens{access: "tok"}, srv.URL)
	events, err := c.List(context.Background(), time.Now(), time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Recurrence == nil || events[0].Recurrence.Canonical() != recurrence.Daily {
		t.Errorf("expected daily recurrence on first event")
	}
	if events[1].Start != "2026-07-04" {
		t.Errorf("expected date start for all-day event, got %s", events[1].Start)
	}
}
