package app

import "testing"

func TestInitialUser(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		last       string
		configured string
		want       string
	}{
		{"flag wins", "u1", "u2", "u3", "u1"},
		{"last session beats config", "", "u2", "u3", "u2"},
		{"config is the fallback", "", "", "u3", "u3"},
		{"all empty means prompt", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := initialUser(tt.flag, tt.last, tt.configured)
			if got != tt.want {
				t.Errorf("initialUser(%q, %q, %q) = %q, want %q", tt.flag, tt.last, tt.configured, got, tt.want)
			}
		})
	}
}
