package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// Settings aggregates runtime configuration for the service.
// It is built once at startup by Load and passed by value afterwards.
type Settings struct {
	Bws       BwsConfig       `yaml:"bws"`
	Discord   *DiscordConfig  `yaml:"discord"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Infra     InfraConfig     `yaml:"infra"`
	Keycloak  *KeycloakConfig `yaml:"keycloak"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Database  *DatabaseConfig `yaml:"database"`
	Redis     *RedisConfig    `yaml:"redis"`
	HTTP      HTTPConfig      `yaml:"http"`
	Wallet    WalletConfig    `yaml:"wallet"`
}

// BwsConfig controls the Bitwarden secrets overlay.
type BwsConfig struct {
	Enable    bool   `yaml:"enable"`
	ProjectID string `yaml:"project_id"`
}

// DiscordConfig holds the Discord OAuth and bot settings.
type DiscordConfig struct {
	BotToken     Secret `yaml:"bot_token"`
	ClientID     int64  `yaml:"client_id"`
	GuildID      int64  `yaml:"guild_id"`
	MemberRole   int64  `yaml:"member_role"`
	RedirectBase string `yaml:"redirect_base"`
	Scope        string `yaml:"scope"`
	Secret       Secret `yaml:"secret"`
	Enable       *bool  `yaml:"enable"`
}

// StripeConfig holds payment settings.
type StripeConfig struct {
	APIKey        Secret `yaml:"api_key"`
	WebhookSecret Secret `yaml:"webhook_secret"`
	PriceID       string `yaml:"price_id"`
	URLSuccess    string `yaml:"url_success"`
	URLFailure    string `yaml:"url_failure"`
	PausePayments bool   `yaml:"pause_payments"`
}

// EmailConfig holds SMTP settings. Email doubles as the login username.
type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	Email      string `yaml:"email"`
	Password   Secret `yaml:"password"`
	Enable     *bool  `yaml:"enable"`
}

// JWTConfig defines member token parameters. Lifetimes are in seconds.
type JWTConfig struct {
	Secret       Secret `yaml:"secret"`
	Algorithm    string `yaml:"algorithm"`
	LifetimeUser int    `yaml:"lifetime_user"`
	LifetimeSudo int    `yaml:"lifetime_sudo"`
}

// InfraConfig holds OpenStack related settings.
type InfraConfig struct {
	Wifi                        string `yaml:"wifi"`
	Horizon                     string `yaml:"horizon"`
	ApplicationCredentialID     string `yaml:"application_credential_id"`
	ApplicationCredentialSecret Secret `yaml:"application_credential_secret"`
}

type KeycloakConfig struct {
	Username string `yaml:"username"`
	Password Secret `yaml:"password"`
	URL      string `yaml:"url"`
	Realm    string `yaml:"realm"`
}

type TelemetryConfig struct {
	URL    string `yaml:"url"`
	Enable bool   `yaml:"enable"`
	Env    string `yaml:"env"`
}

// DatabaseConfig holds the Postgres DSN. An empty URL disables the database.
type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	RunMigrations  bool   `yaml:"run_migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password Secret `yaml:"password"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Domain                string `yaml:"domain"`
	Listen                string `yaml:"listen"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// WalletConfig configures pass assembly and signing.
type WalletConfig struct {
	AssetsDir          string        `yaml:"assets_dir"`
	KeyFile            string        `yaml:"key_file"`
	CertFile           string        `yaml:"cert_file"`
	P12File            string        `yaml:"p12_file"`
	KeyPassword        Secret        `yaml:"key_password"`
	WWDRCertFile       string        `yaml:"wwdr_cert_file"`
	PassTypeIdentifier string        `yaml:"pass_type_identifier"`
	TeamIdentifier     string        `yaml:"team_identifier"`
	OrganizationName   string        `yaml:"organization_name"`
	Description        string        `yaml:"description"`
	FallbackAvatarURL  string        `yaml:"fallback_avatar_url"`
	AvatarTimeout      time.Duration `yaml:"avatar_timeout"`
	AvatarMaxBytes     int64         `yaml:"avatar_max_bytes"`
	AvatarFailure      string        `yaml:"avatar_failure"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
}

const (
	AvatarFailureFail = "fail"
	AvatarFailureOmit = "omit"
)

const minJWTSecretLength = 32

var projectIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ErrInvalidProjectID is returned when bws.project_id contains characters
// outside of [a-z0-9-].
var ErrInvalidProjectID = errors.New("invalid bitwarden project id")

// Load reads the YAML file at path, overlays secrets from source when
// bws.enable is set, applies defaults and validates the result.
func Load(ctx context.Context, path string, source SecretSource) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(ctx, raw, source)
}

// Parse is Load without the file read.
func Parse(ctx context.Context, raw []byte, source SecretSource) (Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}

	if s.Bws.Enable {
		if !projectIDPattern.MatchString(s.Bws.ProjectID) {
			return Settings{}, fmt.Errorf("%w: %q", ErrInvalidProjectID, s.Bws.ProjectID)
		}
		if source == nil {
			return Settings{}, errors.New("bws enabled but no secret source configured")
		}
		secrets, err := source.Secrets(ctx, s.Bws.ProjectID)
		if err != nil {
			return Settings{}, fmt.Errorf("load bitwarden secrets: %w", err)
		}
		if err := applySecrets(&s, secrets); err != nil {
			return Settings{}, err
		}
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.Discord != nil && s.Discord.Enable == nil {
		s.Discord.Enable = boolPtr(true)
	}
	if s.Email.Enable == nil {
		s.Email.Enable = boolPtr(true)
	}
	if s.Telemetry.Env == "" {
		s.Telemetry.Env = "dev"
	}
	if s.Redis == nil {
		s.Redis = &RedisConfig{}
	}
	if s.Redis.Host == "" {
		s.Redis.Host = "localhost"
	}
	if s.Redis.Port == 0 {
		s.Redis.Port = 6379
	}
	if s.Database == nil {
		s.Database = &DatabaseConfig{}
	}
	if s.HTTP.Listen == "" {
		s.HTTP.Listen = "0.0.0.0:8000"
	}
	if s.HTTP.RequestTimeoutSeconds == 0 {
		s.HTTP.RequestTimeoutSeconds = 30
	}

	w := &s.Wallet
	setDefault(&w.AssetsDir, "static/apple_wallet")
	if w.P12File == "" {
		setDefault(&w.KeyFile, "config/pki/hackucf.key")
		setDefault(&w.CertFile, "config/pki/hackucf.pem")
	}
	setDefault(&w.PassTypeIdentifier, "pass.org.hackucf.join")
	setDefault(&w.TeamIdentifier, "VWTW9R97Q4")
	setDefault(&w.OrganizationName, "Hack@UCF")
	setDefault(&w.Description, "Hack@UCF Membership ID")
	setDefault(&w.FallbackAvatarURL, "https://cdn.hackucf.org/PFP.png")
	setDefault(&w.AvatarFailure, AvatarFailureFail)
	if w.AvatarTimeout <= 0 {
		w.AvatarTimeout = 5 * time.Second
	}
	if w.AvatarMaxBytes <= 0 {
		w.AvatarMaxBytes = 2 * 1024 * 1024
	}
	if w.RateLimitPerMinute == 0 {
		w.RateLimitPerMinute = 10
	}
}

// Validate reports every missing or malformed field at once.
func (s Settings) Validate() error {
	var problems []string
	require := func(field, val string) {
		if strings.TrimSpace(val) == "" {
			problems = append(problems, field+" is required")
		}
	}

	if d := s.Discord; d != nil {
		require("discord.bot_token", d.BotToken.Reveal())
		require("discord.secret", d.Secret.Reveal())
		require("discord.redirect_base", d.RedirectBase)
		require("discord.scope", d.Scope)
		if d.ClientID == 0 {
			problems = append(problems, "discord.client_id is required")
		}
		if d.GuildID == 0 {
			problems = append(problems, "discord.guild_id is required")
		}
	}

	require("stripe.api_key", s.Stripe.APIKey.Reveal())
	require("stripe.webhook_secret", s.Stripe.WebhookSecret.Reveal())
	require("stripe.price_id", s.Stripe.PriceID)
	require("stripe.url_success", s.Stripe.URLSuccess)
	require("stripe.url_failure", s.Stripe.URLFailure)

	require("email.smtp_server", s.Email.SMTPServer)
	require("email.email", s.Email.Email)
	require("email.password", s.Email.Password.Reveal())

	if len(s.JWT.Secret.Reveal()) < minJWTSecretLength {
		problems = append(problems, fmt.Sprintf("jwt.secret must be at least %d characters", minJWTSecretLength))
	}
	if _, ok := jwt.GetSigningMethod(s.JWT.Algorithm).(*jwt.SigningMethodHMAC); !ok {
		problems = append(problems, fmt.Sprintf("jwt.algorithm %q is not an HMAC algorithm", s.JWT.Algorithm))
	}
	if s.JWT.LifetimeUser <= 0 {
		problems = append(problems, "jwt.lifetime_user must be positive")
	}
	if s.JWT.LifetimeSudo <= 0 {
		problems = append(problems, "jwt.lifetime_sudo must be positive")
	}

	require("infra.wifi", s.Infra.Wifi)
	require("infra.horizon", s.Infra.Horizon)

	if k := s.Keycloak; k != nil {
		require("keycloak.username", k.Username)
		require("keycloak.password", k.Password.Reveal())
		require("keycloak.url", k.URL)
		require("keycloak.realm", k.Realm)
	}

	require("http.domain", s.HTTP.Domain)

	if s.Wallet.P12File == "" {
		require("wallet.key_file", s.Wallet.KeyFile)
		require("wallet.cert_file", s.Wallet.CertFile)
	}
	switch s.Wallet.AvatarFailure {
	case AvatarFailureFail, AvatarFailureOmit:
	default:
		problems = append(problems, fmt.Sprintf("wallet.avatar_failure %q must be %q or %q",
			s.Wallet.AvatarFailure, AvatarFailureFail, AvatarFailureOmit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr returns the Redis address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (h HTTPConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

func setDefault(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func boolPtr(b bool) *bool { return &b }
