package ledgertime

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestParseDate_DateOnlyIsMidnightPlusOffset(t *testing.T) {
	for _, in := range []string{"2024-03-05", "2024-3-5", "2024-03-5"} {
		got := ParseDate(in, nil)
		if s := Format(got); s != "2024-03-05T08:00:00" {
			t.Errorf("Format(ParseDate(%q)) = %q, want 2024-03-05T08:00:00", in, s)
		}
	}
}

func TestParseDate_FallsBackToNow(t *testing.T) {
	now := time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC)
	for _, in := range []string{"", "05/03/2024", "garbage", "2019-07-04T13:37:00", "2024-13-01"} {
		got := ParseDate(in, fixedClock(now))
		if !got.Equal(now) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, now)
		}
		if s := Format(got); s != "2024-01-02T00:30:00" {
			t.Errorf("Format(ParseDate(%q)) = %q, want 2024-01-02T00:30:00", in, s)
		}
	}
}

func TestParseEditDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC)
	cases := []struct {
		in, want string
	}{
		{"2023-12-31T23:59:58.250000", "2023-12-31T23:59:58.250000"},
		{"2019-07-04T13:37:00", "2019-07-04T13:37:00"},
		{"2024-1-5", "2024-01-05T08:00:00"},
		{"nonsense", "2024-01-02T00:30:00"},
	}
	for _, c := range cases {
		if s := Format(ParseEditDate(c.in, fixedClock(now))); s != c.want {
			t.Errorf("ParseEditDate(%q) = %q, want %q", c.in, s, c.want)
		}
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2024, 6, 1, 8, 0, 0, 0, Zone),
		time.Date(2024, 6, 1, 8, 0, 0, 123456000, Zone),
		Now(fixedClock(time.Date(2025, 2, 3, 4, 5, 6, 789123456, time.UTC))),
	}
	for _, in := range cases {
		s := Format(in)
		out, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if !out.Equal(ToStore(in)) {
			t.Errorf("round trip %v -> %q -> %v", in, s, out)
		}
	}
}

func TestFormat_MicrosecondsPadded(t *testing.T) {
	in := time.Date(2024, 6, 1, 8, 0, 0, 120000000, Zone)
	if s := Format(in); s != "2024-06-01T08:00:00.120000" {
		t.Errorf("Format = %q", s)
	}
}

func TestStoreConversion(t *testing.T) {
	// The driver hands back the wall clock tagged as UTC.
	stored := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	got := FromStore(stored)
	if Format(got) != "2024-03-05T08:00:00" {
		t.Errorf("FromStore wall clock = %q", Format(got))
	}
	if !got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FromStore instant = %v", got.UTC())
	}
	back := ToStore(got)
	if back.Hour() != 8 || back.Location() != Zone {
		t.Errorf("ToStore = %v", back)
	}
}

func TestFormatAudit(t *testing.T) {
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	if s := FormatAudit(now); s != "2024-01-02 04:00:00" {
		t.Errorf("FormatAudit = %q", s)
	}
}
