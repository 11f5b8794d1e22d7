// Package recurrence models repeat schedules for events, expenses and
// habits, and translates them to and from RFC 5545 RRULE strings at the
// external calendar boundary.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the user-facing repeat cadence.
type Frequency string

const (
	None     Frequency = "none"
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case None, Daily, Weekly, Biweekly, Monthly, Yearly:
		return true
	}
	return false
}

// Repeats reports whether f describes an actual repeat cadence.
func (f Frequency) Repeats() bool {
	return f.Valid() && f != None
}

// Rule is the normalized repeat schedule: a base frequency plus an
// interval. Biweekly is sugar for weekly with interval 2, so translation
// boundaries never special-case it.
type Rule struct {
	Freq     Frequency
	Interval int
	Until    *time.Time
}

// untilLayout is the RRULE UTC timestamp form used for UNTIL.
const untilLayout = "20060102T150405Z"

// New builds a Rule from a user-facing frequency. None yields a nil rule.
func New(f Frequency, until *time.Time) (*Rule, error) {
	switch f {
	case None:
		return nil, nil
	case Daily:
		return &Rule{Freq: Daily, Interval: 1, Until: until}, nil
	case Weekly:
		return &Rule{Freq: Weekly, Interval: 1, Until: until}, nil
	case Biweekly:
		return &Rule{Freq: Weekly, Interval: 2, Until: until}, nil
	case Monthly:
		return &Rule{Freq: Monthly, Interval: 1, Until: until}, nil
	case Yearly:
		return &Rule{Freq: Yearly, Interval: 1, Until: until}, nil
	}
	return nil, fmt.Errorf("recurrence: unknown frequency %q", f)
}

// Canonical collapses the rule back to the user-facing frequency.
func (r *Rule) Canonical() Frequency {
	if r == nil {
		return None
	}
	if r.Freq == Weekly && r.Interval == 2 {
		return Biweekly
	}
	return r.Freq
}

// Step advances d by one occurrence of the rule. A nil rule returns d
// unchanged; callers walking a schedule must treat a non-advancing step
// as the end of the walk.
func (r *Rule) Step(d time.Time) time.Time {
	if r == nil || r.Interval <= 0 {
		return d
	}
	switch r.Freq {
	case Daily:
		return d.AddDate(0, 0, r.Interval)
	case Weekly:
		return d.AddDate(0, 0, 7*r.Interval)
	case Monthly:
		return d.AddDate(0, r.Interval, 0)
	case Yearly:
		return d.AddDate(r.Interval, 0, 0)
	}
	return d
}

// RRule renders the rule as an RFC 5545 RRULE value, e.g.
// "FREQ=WEEKLY;INTERVAL=2;UNTIL=20260101T000000Z". INTERVAL is omitted
// when it is 1, matching what calendar servers emit themselves.
func (r *Rule) RRule() string {
	if r == nil {
		return ""
	}
	parts := []string{"FREQ=" + strings.ToUpper(string(r.Freq))}
	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.UTC().Format(untilLayout))
	}
	return strings.Join(parts, ";")
}

// ParseRRule parses an RRULE value (with or without the "RRULE:" prefix)
// back into a Rule. The string is validated through rrule-go before the
// frequency and interval are lifted out, so malformed rules coming back
// from a remote calendar are rejected early.
func ParseRRule(s string) (*Rule, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "RRULE:")
	if s == "" {
		return nil, nil
	}

	opt, err := rrule.StrToROption(s)
	if err != nil {
		return nil, fmt.Errorf("recurrence: parse %q: %w", s, err)
	}

	rule := &Rule{Interval: opt.Interval}
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	switch opt.Freq {
	case rrule.DAILY:
		rule.Freq = Daily
	case rrule.WEEKLY:
		rule.Freq = Weekly
	case rrule.MONTHLY:
		rule.Freq = Monthly
	case rrule.YEARLY:
		rule.Freq = Yearly
	default:
		return nil, fmt.Errorf("recurrence: unsupported frequency in %q", s)
	}

	if rule.Freq == Weekly {
		if rule.Interval != 1 && rule.Interval != 2 {
			return nil, fmt.Errorf("recurrence: unsupported weekly interval %d", rule.Interval)
		}
	} else if rule.Interval != 1 {
		return nil, fmt.Errorf("recurrence: unsupported interval %d for %s", rule.Interval, rule.Freq)
	}

	if !opt.Until.IsZero() {
		until := opt.Until.UTC()
		rule.Until = &until
	}
	return rule, nil
}
