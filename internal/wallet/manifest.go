package wallet

// Pass is the pass.json document.
type Pass struct {
	FormatVersion      int        `json:"formatVersion"`
	PassTypeIdentifier string     `json:"passTypeIdentifier"`
	TeamIdentifier     string     `json:"teamIdentifier"`
	OrganizationName   string     `json:"organizationName"`
	SerialNumber       string     `json:"serialNumber"`
	Description        string     `json:"description"`
	Locations          []Location `json:"locations"`
	ForegroundColor    string     `json:"foregroundColor"`
	BackgroundColor    string     `json:"backgroundColor"`
	LabelColor         string     `json:"labelColor"`
	LogoText           string     `json:"logoText,omitempty"`
	Barcodes           []Barcode  `json:"barcodes"`
	Generic            Structure  `json:"generic"`
}

type Location struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RelevantText string  `json:"relevantText,omitempty"`
}

type Barcode struct {
	Format          string `json:"format"`
	Message         string `json:"message"`
	MessageEncoding string `json:"messageEncoding"`
	AltText         string `json:"altText,omitempty"`
}

// Structure groups the fields of a generic pass.
type Structure struct {
	PrimaryFields   []Field `json:"primaryFields"`
	SecondaryFields []Field `json:"secondaryFields"`
	BackFields      []Field `json:"backFields"`
}

type Field struct {
	Key             string `json:"key"`
	Label           string `json:"label"`
	Value           string `json:"value"`
	AttributedValue string `json:"attributedValue,omitempty"`
}

// Identity names the pass type the signing certificate was issued for.
type Identity struct {
	PassTypeIdentifier string
	TeamIdentifier     string
	OrganizationName   string
	Description        string
}

// Branding and layout constants.
const (
	foregroundColor = "#D2990B"
	backgroundColor = "#1C1C1C"
	labelColor      = "#ffffff"

	cyberLabLatitude  = 28.601366109876327
	cyberLabLongitude = -81.19867691612126
	cyberLabNearby    = "You're near the CyberLab!"

	barcodeFormat   = "PKBarcodeFormatQR"
	barcodeEncoding = "iso-8859-1"

	unknownID             = "Unknown_ID"
	altTextPlaceholder    = "Hack@UCF Member"
	infraEmailPlaceholder = "Not Provisioned"
)

var backFields = []Field{
	{
		Key:             "view-profile",
		Label:           "View Profile",
		Value:           "You can view and edit your profile at https://join.hackucf.org/profile.",
		AttributedValue: "You can view and edit your profile at <a href='https://join.hackucf.org/profile'>join.hackucf.org</a>.",
	},
	{
		Key:             "check-in",
		Label:           "Check In",
		Value:           "At a meeting? Visit https://hackucf.org/signin to sign in",
		AttributedValue: "At a meeting? Visit <a href='https://hackucf.org/signin'>hackucf.org/signin</a> to sign in.",
	},
}
