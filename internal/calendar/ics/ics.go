// Package ics implements the calendar.Provider interface over an on-disk
// iCalendar file, the service-side analog of the device's own calendar
// store. Each connected account owns one .ics file; events are plain
// VEVENTs so any calendar app can subscribe to the file.
package ics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"

	"daybook/internal/calendar"
	"daybook/internal/uuid"
)

// Provider reads and rewrites a single calendar file. Mutations are
// serialized through a mutex since sync pushes run on their own
// goroutines.
type Provider struct {
	mu   sync.Mutex
	path string
}

// New creates a Provider persisting to the given .ics file path.
func New(path string) *Provider {
	return &Provider{path: path}
}

// Name implements calendar.Provider.
func (p *Provider) Name() string { return "ics" }

// BestEffortDelete implements calendar.Provider: a failed local delete
// leaves nothing remotely orphaned, so the mapping is dropped regardless.
func (p *Provider) BestEffortDelete() bool { return true }

// Exists implements calendar.Provider.
func (p *Provider) Exists(_ context.Context, remoteID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cal, err := p.load()
	if err != nil {
		return false, err
	}
	return findEvent(cal, remoteID) != nil, nil
}

// Create implements calendar.Provider.
func (p *Provider) Create(_ context.Context, ev calendar.Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cal, err := p.load()
	if err != nil {
		return "", err
	}

	uid := uuid.New() + "@daybook"
	writeEvent(cal.AddEvent(uid), ev)

	if err := p.save(cal); err != nil {
		return "", err
	}
	return uid, nil
}

// Update implements calendar.Provider. The VEVENT is rebuilt from
// scratch rather than patched so stale properties never linger.
func (p *Provider) Update(_ context.Context, remoteID string, ev calendar.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cal, err := p.load()
	if err != nil {
		return err
	}
	if findEvent(cal, remoteID) == nil {
		return calendar.ErrRemoteNotFound
	}

	removeEvent(cal, remoteID)
	writeEvent(cal.AddEvent(remoteID), ev)
	return p.save(cal)
}

// Delete implements calendar.Provider. Deleting a UID that is not in the
// file is a no-op.
func (p *Provider) Delete(_ context.Context, remoteID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cal, err := p.load()
	if err != nil {
		return err
	}
	if findEvent(cal, remoteID) == nil {
		return nil
	}

	removeEvent(cal, remoteID)
	return p.save(cal)
}

// load parses the calendar file, returning an empty calendar when the
// file does not exist yet.
func (p *Provider) load() (*ical.Calendar, error) {
	body, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ical.NewCalendar(), nil
		}
		return nil, fmt.Errorf("ics: read %s: %w", p.path, err)
	}
	if len(body) == 0 {
		return ical.NewCalendar(), nil
	}

	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", p.path, err)
	}
	return cal, nil
}

func (p *Provider) save(cal *ical.Calendar) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("ics: mkdir: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(cal.Serialize()), 0o600); err != nil {
		return fmt.Errorf("ics: write %s: %w", p.path, err)
	}
	return nil
}

func findEvent(cal *ical.Calendar, uid string) *ical.VEvent {
	for _, ve := range cal.Events() {
		if prop := ve.GetProperty(ical.ComponentPropertyUniqueId); prop != nil && prop.Value == uid {
			return ve
		}
	}
	return nil
}

func removeEvent(cal *ical.Calendar, uid string) {
	kept := cal.Components[:0]
	for _, comp := range cal.Components {
		if ve, ok := comp.(*ical.VEvent); ok {
			if prop := ve.GetProperty(ical.ComponentPropertyUniqueId); prop != nil && prop.Value == uid {
				continue
			}
		}
		kept = append(kept, comp)
	}
	cal.Components = kept
}

// writeEvent renders a provider-neutral event into a VEVENT. All-day
// events are written as DATE values spanning midnight to midnight the
// following day; reminders become a single relative display alarm.
func writeEvent(ve *ical.VEvent, ev calendar.Event) {
	ve.SetDtStampTime(time.Now().UTC())
	ve.SetSummary(ev.Title)
	if ev.Notes != "" {
		ve.SetDescription(ev.Notes)
	}

	if ev.AllDay {
		ve.SetAllDayStartAt(ev.Start)
		ve.SetAllDayEndAt(ev.End)
	} else {
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
	}

	if ev.Recurrence != nil {
		ve.SetProperty(ical.ComponentPropertyRrule, ev.Recurrence.RRule())
	}

	if ev.ReminderMinutes != nil {
		alarm := ve.AddAlarm()
		alarm.SetProperty(ical.ComponentProperty("ACTION"), "DISPLAY")
		alarm.SetProperty(ical.ComponentProperty("DESCRIPTION"), ev.Title)
		alarm.SetProperty(ical.ComponentProperty("TRIGGER"), fmt.Sprintf("-PT%dM", *ev.ReminderMinutes))
	}
}
