package config

import (
	"os"
	"testing"
	"time"

	"rapidclick/internal/click"
)

func TestParseFlags(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults with process",
			args: []string{"rapidclick", "-process", "game.exe"},
			want: Config{
				Profile:   "burst",
				Mode:      click.HotkeyToggle,
				Process:   "game.exe",
				LeftRate:  15,
				RightRate: 15,
			},
		},
		{
			name: "explicit rates and profile",
			args: []string{"rapidclick", "-process", "game.exe", "-profile", "steady", "-cps", "12", "-right-cps", "18"},
			want: Config{
				Profile:   "steady",
				Mode:      click.HotkeyToggle,
				Process:   "game.exe",
				LeftRate:  12,
				RightRate: 18,
			},
		},
		{
			name: "right rate follows left by default",
			args: []string{"rapidclick", "-process", "game.exe", "-cps", "20"},
			want: Config{
				Profile:   "burst",
				Mode:      click.HotkeyToggle,
				Process:   "game.exe",
				LeftRate:  20,
				RightRate: 20,
			},
		},
		{
			name: "mouse hold mode with headless run duration",
			args: []string{"rapidclick", "-process", "game.exe", "-mode", "mouse", "-for", "90", "-no-ui"},
			want: Config{
				Profile:   "burst",
				Mode:      click.MouseHold,
				Process:   "game.exe",
				LeftRate:  15,
				RightRate: 15,
				RunFor:    90 * time.Minute,
				NoUI:      true,
			},
		},
		{
			name: "duration accepts go syntax",
			args: []string{"rapidclick", "-process", "game.exe", "-for", "1h30m"},
			want: Config{
				Profile:   "burst",
				Mode:      click.HotkeyToggle,
				Process:   "game.exe",
				LeftRate:  15,
				RightRate: 15,
				RunFor:    90 * time.Minute,
			},
		},
		{
			name:    "missing process",
			args:    []string{"rapidclick"},
			wantErr: true,
		},
		{
			name:    "unknown profile",
			args:    []string{"rapidclick", "-process", "game.exe", "-profile", "warp"},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			args:    []string{"rapidclick", "-process", "game.exe", "-mode", "sometimes"},
			wantErr: true,
		},
		{
			name:    "rate out of range",
			args:    []string{"rapidclick", "-process", "game.exe", "-cps", "300"},
			wantErr: true,
		},
		{
			name:    "bad duration",
			args:    []string{"rapidclick", "-process", "game.exe", "-for", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			got, err := ParseFlags("test")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}
