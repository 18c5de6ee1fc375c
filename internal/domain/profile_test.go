package domain

import "testing"

func TestProfile_IsOperator(t *testing.T) {
	tests := []struct {
		ops  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"jstyles@hackucf.org", true},
	}
	for _, tt := range tests {
		if got := (Profile{OpsEmail: tt.ops}).IsOperator(); got != tt.want {
			t.Errorf("IsOperator(%q) = %v, want %v", tt.ops, got, tt.want)
		}
	}
}

func TestProfile_DisplayName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Jonathan", "Styles", "Jonathan Styles"},
		{"Jonathan", "", "Jonathan"},
		{"", "Styles", "Styles"},
		{"", "", ""},
	}
	for _, tt := range tests {
		p := Profile{FirstName: tt.first, Surname: tt.last}
		if got := p.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestProfile_DiscordAccessors(t *testing.T) {
	var p Profile
	if p.DiscordUsername() != "" || p.AvatarURL() != "" {
		t.Error("expected empty accessors without a discord account")
	}
	p.Discord = &DiscordProfile{Username: "knight", Avatar: "https://cdn.example/a.png"}
	if p.DiscordUsername() != "knight" || p.AvatarURL() != "https://cdn.example/a.png" {
		t.Error("unexpected discord accessor values")
	}
}
