package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// SecretSource lists the secrets stored for a project as key/value pairs.
type SecretSource interface {
	Secrets(ctx context.Context, projectID string) (map[string]string, error)
}

// BitwardenCLI reads secrets through the Bitwarden Secrets Manager CLI.
// The access token is taken from BWS_ACCESS_TOKEN in the process environment.
type BitwardenCLI struct {
	Binary string
	Env    []string
}

// Secrets runs `bws secret list <project> --output json`.
func (b BitwardenCLI) Secrets(ctx context.Context, projectID string) (map[string]string, error) {
	if !projectIDPattern.MatchString(projectID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProjectID, projectID)
	}
	bin := b.Binary
	if bin == "" {
		bin = "bws"
	}

	cmd := exec.CommandContext(ctx, bin, "secret", "list", projectID, "--output", "json")
	cmd.Env = append(os.Environ(), b.Env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", bin, err, strings.TrimSpace(stderr.String()))
	}
	return parseSecretList(out)
}

type bwsSecret struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func parseSecretList(raw []byte) (map[string]string, error) {
	var items []bwsSecret
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse bws output: %w", err)
	}
	secrets := make(map[string]string, len(items))
	for _, item := range items {
		secrets[item.Key] = item.Value
	}
	return secrets, nil
}

// secretBinding writes one Bitwarden secret into its settings field.
// Optional sections absent from the file are left untouched.
type secretBinding func(s *Settings, value string) error

var secretBindings = map[string]secretBinding{
	"discord_bot_token": func(s *Settings, v string) error {
		if s.Discord == nil {
			return nil
		}
		s.Discord.BotToken = Secret(v)
		return nil
	},
	"discord_client_id": func(s *Settings, v string) error {
		if s.Discord == nil {
			return nil
		}
		return parseInt64(v, &s.Discord.ClientID)
	},
	"discord_secret": func(s *Settings, v string) error {
		if s.Discord == nil {
			return nil
		}
		s.Discord.Secret = Secret(v)
		return nil
	},
	"stripe_api_key": func(s *Settings, v string) error {
		s.Stripe.APIKey = Secret(v)
		return nil
	},
	"stripe_webhook_secret": func(s *Settings, v string) error {
		s.Stripe.WebhookSecret = Secret(v)
		return nil
	},
	"stripe_price_id": func(s *Settings, v string) error {
		s.Stripe.PriceID = v
		return nil
	},
	"email_password": func(s *Settings, v string) error {
		s.Email.Password = Secret(v)
		return nil
	},
	"jwt_secret": func(s *Settings, v string) error {
		s.JWT.Secret = Secret(v)
		return nil
	},
	"infra_wifi": func(s *Settings, v string) error {
		s.Infra.Wifi = v
		return nil
	},
	"infra_application_credential_id": func(s *Settings, v string) error {
		s.Infra.ApplicationCredentialID = v
		return nil
	},
	"infra_configuration_credential_secret": func(s *Settings, v string) error {
		s.Infra.ApplicationCredentialSecret = Secret(v)
		return nil
	},
	"wallet_key_password": func(s *Settings, v string) error {
		s.Wallet.KeyPassword = Secret(v)
		return nil
	},
}

// applySecrets overlays known secrets onto s. Unknown keys are ignored.
func applySecrets(s *Settings, secrets map[string]string) error {
	for key, value := range secrets {
		bind, ok := secretBindings[key]
		if !ok {
			continue
		}
		if err := bind(s, value); err != nil {
			return fmt.Errorf("bitwarden secret %s: %w", key, err)
		}
	}
	return nil
}

func parseInt64(v string, dst *int64) error {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
