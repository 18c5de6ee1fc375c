package config

import "encoding/json"

const redacted = "**********"

// Secret is a string that never prints its value. Use Reveal to read it.
type Secret string

// Reveal returns the underlying value.
func (s Secret) Reveal() string { return string(s) }

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
