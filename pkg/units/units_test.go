package units

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		atoms uint64
		want  string
	}{
		{"half a unit", 500_000_000, "0.5 DLK"},
		{"whole unit", 1_000_000_000, "1 DLK"},
		{"zero", 0, "0 DLK"},
		{"single atom", 1, "0.000000001 DLK"},
		{"trailing zeros trimmed", 1_234_000_000, "1.234 DLK"},
		{"no fractional part", 42_000_000_000, "42 DLK"},
		{"all nine digits", 1_123_456_789, "1.123456789 DLK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(uint256.NewInt(tt.atoms), "DLK")
			if got != tt.want {
				t.Errorf("FormatAmount(%d) = %q, want %q", tt.atoms, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{"half a unit", "0.5", 500_000_000, false},
		{"whole unit", "1", 1_000_000_000, false},
		{"zero", "0", 0, false},
		{"nine fractional digits", "0.000000001", 1, false},
		{"surrounding whitespace", " 2.5 ", 2_500_000_000, false},
		{"ten fractional digits", "0.0000000001", 0, true},
		{"negative", "-1", 0, true},
		{"not a number", "abc", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) failed: %v", tt.input, err)
			}
			if !got.Eq(uint256.NewInt(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %d", tt.input, got.Dec(), tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, atoms := range []uint64{0, 1, 999_999_999, 1_000_000_000, 123_456_789_012} {
		formatted := FormatAmount(uint256.NewInt(atoms), "DLK")
		display := formatted[:len(formatted)-len(" DLK")]
		parsed, err := ParseAmount(display)
		if err != nil {
			t.Fatalf("ParseAmount(%q) failed: %v", display, err)
		}
		if !parsed.Eq(uint256.NewInt(atoms)) {
			t.Errorf("Round trip of %d gave %s", atoms, parsed.Dec())
		}
	}
}

func TestParseAtoms(t *testing.T) {
	got, err := ParseAtoms("1025000000")
	if err != nil {
		t.Fatalf("ParseAtoms failed: %v", err)
	}
	if !got.Eq(uint256.NewInt(1_025_000_000)) {
		t.Errorf("ParseAtoms = %s, want 1025000000", got.Dec())
	}

	for _, bad := range []string{"", "-5", "1.5", "0x10", "abc"} {
		if _, err := ParseAtoms(bad); err == nil {
			t.Errorf("ParseAtoms(%q) succeeded, want error", bad)
		}
	}
}

func TestTimelocks(t *testing.T) {
	now := int64(1_000_000)
	deadline := Timelock(now, 60_000)
	if deadline != 1_060_000 {
		t.Fatalf("Timelock = %d, want 1060000", deadline)
	}

	if TimelockExpired(deadline, now) {
		t.Error("Deadline expired before its time")
	}
	if !TimelockExpired(deadline, deadline) {
		t.Error("Deadline not expired exactly at its time")
	}
	if got := TimelockRemaining(deadline, now); got != 60_000 {
		t.Errorf("TimelockRemaining = %d, want 60000", got)
	}
	if got := TimelockRemaining(deadline, deadline+1); got != 0 {
		t.Errorf("TimelockRemaining past deadline = %d, want 0", got)
	}
}
