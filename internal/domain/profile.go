package domain

import "strings"

// DiscordProfile is the linked Discord account of a member.
type DiscordProfile struct {
	Username string
	Avatar   string
}

// Profile is the member data a wallet pass is built from.
type Profile struct {
	ID         string
	FirstName  string
	Surname    string
	InfraEmail string
	OpsEmail   string
	Discord    *DiscordProfile
}

// IsOperator reports whether the member holds an operations role.
func (p Profile) IsOperator() bool {
	return strings.TrimSpace(p.OpsEmail) != ""
}

// DisplayName joins first name and surname, dropping the separator when
// either is missing.
func (p Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.Surname)
}

// DiscordUsername returns the linked username or "".
func (p Profile) DiscordUsername() string {
	if p.Discord == nil {
		return ""
	}
	return p.Discord.Username
}

// AvatarURL returns the linked avatar URL or "".
func (p Profile) AvatarURL() string {
	if p.Discord == nil {
		return ""
	}
	return p.Discord.Avatar
}
