package recurrence

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Run("none_yields_nil", func(t *testing.T) {
		rule, err := New(None, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rule != nil {
			t.Fatalf("expected nil rule for none, got %+v", rule)
		}
	})

	t.Run("biweekly_is_weekly_interval_2", func(t *testing.T) {
		rule, err := New(Biweekly, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rule.Freq != Weekly || rule.Interval != 2 {
			t.Errorf("expected weekly/2, got %s/%d", rule.Freq, rule.Interval)
		}
		if rule.Canonical() != Biweekly {
			t.Errorf("expected canonical biweekly, got %s", rule.Canonical())
		}
	})

	t.Run("unknown_frequency", func(t *testing.T) {
		if _, err := New(Frequency("fortnightly"), nil); err == nil {
			t.Error("expected error for unknown frequency")
		}
	})
}

func TestStep(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		freq Frequency
		want time.Time
	}{
		{Daily, day.AddDate(0, 0, 1)},
		{Weekly, day.AddDate(0, 0, 7)},
		{Biweekly, day.AddDate(0, 0, 14)},
		{Monthly, day.AddDate(0, 1, 0)},
		{Yearly, day.AddDate(1, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(string(tc.freq), func(t *testing.T) {
			rule, err := New(tc.freq, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := rule.Step(day)
			if !got.Equal(tc.want) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
			if !got.After(day) {
				t.Error("step must strictly advance")
			}
		})
	}

	t.Run("nil_rule_does_not_advance", func(t *testing.T) {
		var rule *Rule
		if got := rule.Step(day); !got.Equal(day) {
			t.Errorf("expected unchanged date, got %s", got)
		}
	})
}

func TestRRuleRoundTrip(t *testing.T) {
	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, freq := range []Frequency{Daily, Weekly, Biweekly, Monthly, Yearly} {
		for _, u := range []*time.Time{nil, &until} {
			name := string(freq)
			if u != nil {
				name += "_with_until"
			}
			t.Run(name, func(t *testing.T) {
				rule, err := New(freq, u)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				parsed, err := ParseRRule(rule.RRule())
				if err != nil {
					t.Fatalf("parse %q: %v", rule.RRule(), err)
				}
				if parsed.Canonical() != freq {
					t.Errorf("round trip: expected %s, got %s", freq, parsed.Canonical())
				}
				if u == nil && parsed.Until != nil {
					t.Error("expected no until after round trip")
				}
				if u != nil && (parsed.Until == nil || !parsed.Until.Equal(until)) {
					t.Errorf("expected until %s, got %v", until, parsed.Until)
				}
			})
		}
	}
}

func TestParseRRule(t *testing.T) {
	t.Run("strips_prefix", func(t *testing.T) {
		rule, err := ParseRRule("RRULE:FREQ=DAILY")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rule.Canonical() != Daily {
			t.Errorf("expected daily, got %s", rule.Canonical())
		}
	})

	t.Run("empty_is_nil", func(t *testing.T) {
		rule, err := ParseRRule("")
		if err != nil || rule != nil {
			t.Errorf("expected nil/nil, got %v/%v", rule, err)
		}
	})

	t.Run("rejects_hourly", func(t *testing.T) {
		if _, err := ParseRRule("FREQ=HOURLY"); err == nil {
			t.Error("expected error for hourly frequency")
		}
	})

	t.Run("rejects_weekly_interval_3", func(t *testing.T) {
		if _, err := ParseRRule("FREQ=WEEKLY;INTERVAL=3"); err == nil {
			t.Error("expected error for unsupported weekly interval")
		}
	})

	t.Run("rejects_monthly_interval_2", func(t *testing.T) {
		if _, err := ParseRRule("FREQ=MONTHLY;INTERVAL=2"); err == nil {
			t.Error("expected error for unsupported monthly interval")
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := ParseRRule("FREQ="); err == nil {
			t.Error("expected error for malformed rule")
		}
	})
}
