package dto

// PublicContact identifies a contributor without exposing private details.
type PublicContact struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	OpsEmail  string `json:"ops_email"`
}

// InfoResponse describes the wallet API.
type InfoResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Credits     []PublicContact `json:"credits"`
}
