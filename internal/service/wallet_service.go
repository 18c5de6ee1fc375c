package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hackucf/onboard/internal/domain"
	"github.com/hackucf/onboard/internal/repository"
	"github.com/hackucf/onboard/internal/wallet"
	apperrors "github.com/hackucf/onboard/pkg/util/errorutil"
)

// Pass build outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
)

// PassBuilder assembles a signed pass for a profile.
type PassBuilder interface {
	Build(ctx context.Context, profile domain.Profile) ([]byte, error)
}

// BuildRecorder observes pass builds.
type BuildRecorder interface {
	RecordPassBuild(outcome string, duration time.Duration)
}

// WalletService issues wallet passes for members.
type WalletService struct {
	profiles repository.ProfileRepository
	builder  PassBuilder
	recorder BuildRecorder
	logger   *zap.Logger
}

// WalletDependencies bundles collaborators for the wallet service.
type WalletDependencies struct {
	ProfileRepo repository.ProfileRepository
	Builder     PassBuilder
	Recorder    BuildRecorder
	Logger      *zap.Logger
}

// NewWalletService builds the service.
func NewWalletService(deps WalletDependencies) *WalletService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{
		profiles: deps.ProfileRepo,
		builder:  deps.Builder,
		recorder: deps.Recorder,
		logger:   logger,
	}
}

// IssueApplePass loads the member's profile and returns a freshly signed
// pkpass archive.
func (s *WalletService) IssueApplePass(ctx context.Context, userID string) ([]byte, error) {
	started := time.Now()

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			s.record(OutcomeNotFound, started)
			return nil, apperrors.NewNotFound("profile", map[string]any{"id": userID})
		case errors.Is(err, repository.ErrNoDatabase):
			s.record(OutcomeFailure, started)
			return nil, apperrors.NewServiceUnavailable("profile store unavailable", err)
		default:
			s.record(OutcomeFailure, started)
			return nil, apperrors.NewInternalError(err)
		}
	}

	pass, err := s.builder.Build(ctx, *profile)
	if err != nil {
		s.record(OutcomeFailure, started)
		s.logger.Error("pass build failed", zap.String("user_id", userID), zap.Error(err))
		if errors.Is(err, wallet.ErrAvatarUnavailable) {
			return nil, apperrors.NewServiceUnavailable("avatar unavailable", err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.record(OutcomeSuccess, started)
	s.logger.Info("pass issued",
		zap.String("user_id", userID),
		zap.Bool("operator", profile.IsOperator()),
		zap.Int("bytes", len(pass)),
	)
	return pass, nil
}

func (s *WalletService) record(outcome string, started time.Time) {
	if s.recorder != nil {
		s.recorder.RecordPassBuild(outcome, time.Since(started))
	}
}
