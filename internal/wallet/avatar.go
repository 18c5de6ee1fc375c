package wallet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"go.uber.org/zap"
)

const (
	avatarUserAgent       = "HackUCF-Onboard/1.0"
	defaultAvatarMaxBytes = 2 * 1024 * 1024
)

// Avatar fetch outcomes reported to an AvatarRecorder.
const (
	AvatarPrimary  = "primary"
	AvatarFallback = "fallback"
	AvatarFailed   = "failed"
)

// AvatarRecorder receives one outcome per Fetch call.
type AvatarRecorder interface {
	RecordAvatarFetch(outcome string)
}

// AvatarConfig configures an AvatarFetcher.
type AvatarConfig struct {
	// Client should enforce a timeout; production uses an SSRF guarded client.
	Client      *http.Client
	FallbackURL string
	MaxBytes    int64
	Logger      *zap.Logger
	Recorder    AvatarRecorder
}

// AvatarFetcher downloads member avatars. A failed download is retried
// once against the fallback image and never more.
type AvatarFetcher struct {
	client      *http.Client
	fallbackURL string
	maxBytes    int64
	logger      *zap.Logger
	recorder    AvatarRecorder
}

// NewAvatarClient returns an HTTP client that refuses private, loopback and
// link-local destinations and non-web ports.
func NewAvatarClient(timeout time.Duration) *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(cfg).Client
}

// NewAvatarFetcher builds a fetcher from cfg.
func NewAvatarFetcher(cfg AvatarConfig) *AvatarFetcher {
	f := &AvatarFetcher{
		client:      cfg.Client,
		fallbackURL: cfg.FallbackURL,
		maxBytes:    cfg.MaxBytes,
		logger:      cfg.Logger,
		recorder:    cfg.Recorder,
	}
	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.maxBytes <= 0 {
		f.maxBytes = defaultAvatarMaxBytes
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// Fetch returns the image at avatarURL, or the fallback image when that
// fails. Both failing yields an error wrapping ErrAvatarUnavailable.
func (f *AvatarFetcher) Fetch(ctx context.Context, avatarURL string) ([]byte, error) {
	attempts := []string{avatarURL}
	if f.fallbackURL != "" && f.fallbackURL != avatarURL {
		attempts = append(attempts, f.fallbackURL)
	}

	var lastErr error
	for i, u := range attempts {
		data, err := f.get(ctx, u)
		if err == nil {
			if i == 0 {
				f.record(AvatarPrimary)
			} else {
				f.record(AvatarFallback)
			}
			return data, nil
		}
		lastErr = err
		f.logger.Warn("avatar fetch failed",
			zap.String("url", u),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	f.record(AvatarFailed)
	return nil, fmt.Errorf("%w: %w", ErrAvatarUnavailable, lastErr)
}

func (f *AvatarFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", avatarUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}

	mimeType := extractMimeType(resp.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = extractMimeType(http.DetectContentType(body))
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("unexpected content type %q", mimeType)
	}
	return body, nil
}

func (f *AvatarFetcher) record(outcome string) {
	if f.recorder != nil {
		f.recorder.RecordAvatarFetch(outcome)
	}
}

// extractMimeType drops parameters such as charset from a Content-Type value.
func extractMimeType(contentType string) string {
	media, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(strings.ToLower(media))
}
