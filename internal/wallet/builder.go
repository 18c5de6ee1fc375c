package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackucf/onboard/internal/domain"
)

// Response metadata for a built pass.
const (
	ContentType    = "application/vnd.apple.pkpass"
	AttachmentName = "hackucf.pkpass"
)

// ImageFetcher downloads a remote image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// BuilderConfig bundles the long-lived inputs of a Builder.
type BuilderConfig struct {
	Assets     *Assets
	Credential *Credential
	Avatars    ImageFetcher
	Identity   Identity
	// OmitAvatarOnFailure builds the pass without a thumbnail instead of
	// failing when the avatar and its fallback are both unavailable.
	OmitAvatarOnFailure bool
	Logger              *zap.Logger
}

// Builder turns member profiles into signed passes. It holds no per-request
// state and is safe for concurrent use.
type Builder struct {
	assets     *Assets
	credential *Credential
	avatars    ImageFetcher
	identity   Identity
	omitAvatar bool
	logger     *zap.Logger
	newSerial  func() string
}

// NewBuilder constructs a Builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Assets == nil {
		return nil, errors.New("wallet builder: assets are required")
	}
	if cfg.Credential == nil {
		return nil, errors.New("wallet builder: signing credential is required")
	}
	if cfg.Avatars == nil {
		return nil, errors.New("wallet builder: avatar fetcher is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		assets:     cfg.Assets,
		credential: cfg.Credential,
		avatars:    cfg.Avatars,
		identity:   cfg.Identity,
		omitAvatar: cfg.OmitAvatarOnFailure,
		logger:     logger,
		newSerial:  uuid.NewString,
	}, nil
}

// Build returns the signed pkpass archive for profile.
func (b *Builder) Build(ctx context.Context, profile domain.Profile) ([]byte, error) {
	pkg := NewPackage()

	logo := b.assets.Logo(profile.IsOperator())
	static := []entry{
		{name: "icon.png", data: b.assets.Icon.Standard},
		{name: "icon@2x.png", data: b.assets.Icon.Retina},
		{name: "logo.png", data: logo.Standard},
		{name: "logo@2x.png", data: logo.Retina},
	}
	for _, e := range static {
		if err := pkg.Add(e.name, e.data); err != nil {
			return nil, err
		}
	}

	if avatarURL := profile.AvatarURL(); avatarURL != "" {
		img, err := b.avatars.Fetch(ctx, avatarURL)
		switch {
		case err == nil:
			if err := pkg.Add("thumbnail.png", img); err != nil {
				return nil, err
			}
			if err := pkg.Add("thumbnail@2x.png", img); err != nil {
				return nil, err
			}
		case b.omitAvatar:
			b.logger.Warn("building pass without thumbnail",
				zap.String("profile_id", profile.ID),
				zap.Error(err),
			)
		default:
			return nil, fmt.Errorf("fetch avatar: %w", err)
		}
	}

	passJSON, err := json.Marshal(b.manifest(profile))
	if err != nil {
		return nil, fmt.Errorf("encode pass.json: %w", err)
	}
	if err := pkg.Add(PassEntry, passJSON); err != nil {
		return nil, err
	}

	return pkg.Seal(b.credential)
}

func (b *Builder) manifest(profile domain.Profile) Pass {
	message := profile.ID
	if message == "" {
		message = unknownID
	}
	altText := profile.DiscordUsername()
	if altText == "" {
		altText = altTextPlaceholder
	}
	infra := profile.InfraEmail
	if infra == "" {
		infra = infraEmailPlaceholder
	}

	return Pass{
		FormatVersion:      1,
		PassTypeIdentifier: b.identity.PassTypeIdentifier,
		TeamIdentifier:     b.identity.TeamIdentifier,
		OrganizationName:   b.identity.OrganizationName,
		SerialNumber:       b.newSerial(),
		Description:        b.identity.Description,
		Locations: []Location{{
			Latitude:     cyberLabLatitude,
			Longitude:    cyberLabLongitude,
			RelevantText: cyberLabNearby,
		}},
		ForegroundColor: foregroundColor,
		BackgroundColor: backgroundColor,
		LabelColor:      labelColor,
		Barcodes: []Barcode{{
			Format:          barcodeFormat,
			Message:         message,
			MessageEncoding: barcodeEncoding,
			AltText:         altText,
		}},
		Generic: Structure{
			PrimaryFields:   []Field{{Key: "name", Label: "Name", Value: profile.DisplayName()}},
			SecondaryFields: []Field{{Key: "infra", Label: "Infra Email", Value: infra}},
			BackFields:      append([]Field(nil), backFields...),
		},
	}
}
