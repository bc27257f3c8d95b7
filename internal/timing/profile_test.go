package timing

import (
	"errors"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "burst"},
		{name: "steady"},
		{name: "custom", wantErr: true},
		{name: "nonexistent", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ByName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProfile) {
					t.Fatalf("ByName(%q) error = %v, want ErrUnknownProfile", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q) error = %v", tt.name, err)
			}
			if p.Name != tt.name {
				t.Errorf("profile name = %q, want %q", p.Name, tt.name)
			}
		})
	}
}

func TestNamesAreResolvable(t *testing.T) {
	for _, name := range Names() {
		if _, err := ByName(name); err != nil {
			t.Errorf("Names() lists %q but ByName fails: %v", name, err)
		}
	}
}

func TestProfileTimingPerChannel(t *testing.T) {
	p, err := ByName("burst")
	if err != nil {
		t.Fatal(err)
	}

	left := p.Timing(Left)
	right := p.Timing(Right)

	if left.Limits.HardCap == right.Limits.HardCap {
		t.Errorf("burst left and right hard caps should differ, both %d", left.Limits.HardCap)
	}
	if !left.ComboEnabled || right.ComboEnabled {
		t.Errorf("burst combo pattern: left=%v right=%v, want left only", left.ComboEnabled, right.ComboEnabled)
	}
}

func TestPatternLiveUpdate(t *testing.T) {
	p := NewPattern(14)
	if p.TargetRate() != 14 {
		t.Fatalf("TargetRate() = %d, want 14", p.TargetRate())
	}
	p.SetTargetRate(9)
	if p.TargetRate() != 9 {
		t.Fatalf("TargetRate() = %d after set, want 9", p.TargetRate())
	}
}
