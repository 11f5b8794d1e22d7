// Package google implements the calendar.Provider interface over the
// Google Calendar REST API. All requests go through a single
// authenticated-request wrapper that owns the refresh-and-retry policy
// for expired credentials, so individual call sites cannot drift.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"daybook/internal/calendar"
	apperrors "daybook/internal/errors"
	"daybook/internal/recurrence"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// requestTimeout bounds every remote call; a hung network call must not
// hang its sync task forever.
const requestTimeout = 15 * time.Second

// TokenSource supplies and refreshes the account's OAuth credentials.
type TokenSource interface {
	// AccessToken returns the current access token.
	AccessToken(ctx context.Context) (string, error)
	// Refresh exchanges the refresh token for a new access token,
	// persists it, and returns it.
	Refresh(ctx context.Context) (string, error)
}

// Client talks to one user's primary remote calendar.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	tokens     TokenSource
}

// NewClient creates a remote calendar client around the given token source.
func NewClient(tokens TokenSource) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		tokens:     tokens,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom endpoint,
// used by tests to target a fake server.
func NewClientWithBaseURL(tokens TokenSource, baseURL string) *Client {
	c := NewClient(tokens)
	c.baseURL = baseURL
	return c
}

// Name implements calendar.Provider.
func (c *Client) Name() string { return "google" }

// BestEffortDelete implements calendar.Provider: a failed remote delete
// leaves a live remote object, so the mapping must survive for a retry.
func (c *Client) BestEffortDelete() bool { return false }

// remoteEvent is the wire shape of an event resource.
type remoteEvent struct {
	ID          string         `json:"id,omitempty"`
	Status      string         `json:"status,omitempty"`
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Start       eventDateTime  `json:"start"`
	End         eventDateTime  `json:"end"`
	Recurrence  []string       `json:"recurrence,omitempty"`
	Reminders   *eventReminder `json:"reminders,omitempty"`
}

// eventDateTime carries either a whole date (all-day) or an instant.
type eventDateTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type eventReminder struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []reminderOverride `json:"overrides,omitempty"`
}

type reminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type eventList struct {
	Items []remoteEvent `json:"items"`
}

// toRemote renders a provider-neutral event into the wire shape.
func toRemote(ev calendar.Event) remoteEvent {
	out := remoteEvent{
		Summary:     ev.Title,
		Description: ev.Notes,
	}

	if ev.AllDay {
		out.Start = eventDateTime{Date: ev.Start.Format("2006-01-02")}
		out.End = eventDateTime{Date: ev.End.Format("2006-01-02")}
	} else {
		tz := ev.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		out.Start = eventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: tz}
		out.End = eventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: tz}
	}

	if ev.Recurrence != nil {
		out.Recurrence = []string{"RRULE:" + ev.Recurrence.RRule()}
	}

	if ev.ReminderMinutes != nil {
		out.Reminders = &eventReminder{
			UseDefault: false,
			Overrides:  []reminderOverride{{Method: "popup", Minutes: *ev.ReminderMinutes}},
		}
	}
	return out
}

// RemoteEvent is a read-model row returned by List.
type RemoteEvent struct {
	ID         string
	Summary    string
	Start      string
	End        string
	Recurrence *recurrence.Rule
}

// Exists implements calendar.Provider. A cancelled remote event counts
// as gone.
func (c *Client) Exists(ctx context.Context, remoteID string) (bool, error) {
	var out remoteEvent
	err := c.do(ctx, http.MethodGet, "/calendars/primary/events/"+url.PathEscape(remoteID), nil, &out)
	if err == calendar.ErrRemoteNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.Status != "cancelled", nil
}

// Create implements calendar.Provider.
func (c *Client) Create(ctx context.Context, ev calendar.Event) (string, error) {
	var out remoteEvent
	if err := c.do(ctx, http.MethodPost, "/calendars/primary/events", toRemote(ev), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", apperrors.Wrap(apperrors.ErrSyncFailed, fmt.Errorf("google: create returned no event id"))
	}
	return out.ID, nil
}

// Update implements calendar.Provider as a full overwrite.
func (c *Client) Update(ctx context.Context, remoteID string, ev calendar.Event) error {
	return c.do(ctx, http.MethodPut, "/calendars/primary/events/"+url.PathEscape(remoteID), toRemote(ev), nil)
}

// Delete implements calendar.Provider. An already-deleted remote event
// is treated as success.
func (c *Client) Delete(ctx context.Context, remoteID string) error {
	err := c.do(ctx, http.MethodDelete, "/calendars/primary/events/"+url.PathEscape(remoteID), nil, nil)
	if err == calendar.ErrRemoteNotFound {
		return nil
	}
	return err
}

// List fetches the expanded agenda between timeMin and timeMax.
func (c *Client) List(ctx context.Context, timeMin, timeMax time.Time) ([]RemoteEvent, error) {
	q := url.Values{}
	q.Set("timeMin", timeMin.Format(time.RFC3339))
	q.Set("timeMax", timeMax.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	var out eventList
	if err := c.do(ctx, http.MethodGet, "/calendars/primary/events?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}

	events := make([]RemoteEvent, 0, len(out.Items))
	for _, item := range out.Items {
		ev := RemoteEvent{
			ID:      item.ID,
			Summary: item.Summary,
			Start:   item.Start.DateTime,
			End:     item.End.DateTime,
		}
		if ev.Start == "" {
			ev.Start = item.Start.Date
			ev.End = item.End.Date
		}
		if len(item.Recurrence) > 0 {
			// Unparseable remote rules are dropped rather than failing
			// the whole listing.
			if rule, err := recurrence.ParseRRule(item.Recurrence[0]); err == nil {
				ev.Recurrence = rule
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// do is the authenticated-request wrapper. On a 401 it refreshes the
// credentials exactly once and retries; a second 401 is terminal.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNotAuthenticated, err)
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrNotAuthenticated, err)
		}

		resp, err = c.send(ctx, method, path, body, token)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrFetchFailed, err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return apperrors.Wrap(apperrors.ErrNotAuthenticated, fmt.Errorf("google: %s %s: still unauthorized after refresh", method, path))
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return calendar.ErrRemoteNotFound
	case resp.StatusCode >= 300:
		return apperrors.Wrap(apperrors.ErrFetchFailed, fmt.Errorf("google: %s %s: status %d", method, path, resp.StatusCode))
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(apperrors.ErrFetchFailed, fmt.Errorf("google: decode response: %w", err))
		}
	}
	return nil
}

// send issues a single HTTP request with the given bearer token.
func (c *Client) send(ctx context.Context, method, path string, body any, token string) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("google: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("google: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}
