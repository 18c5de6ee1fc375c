package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hackucf/onboard/internal/domain"
	"github.com/hackucf/onboard/internal/repository"
	"github.com/hackucf/onboard/internal/wallet"
	apperrors "github.com/hackucf/onboard/pkg/util/errorutil"
)

type fakeProfiles struct {
	profiles map[string]domain.Profile
	err      error
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

type fakeBuilder struct {
	got  []domain.Profile
	data []byte
	err  error
}

func (f *fakeBuilder) Build(_ context.Context, profile domain.Profile) ([]byte, error) {
	f.got = append(f.got, profile)
	return f.data, f.err
}

type fakeRecorder struct {
	outcomes []string
}

func (f *fakeRecorder) RecordPassBuild(outcome string, _ time.Duration) {
	f.outcomes = append(f.outcomes, outcome)
}

func newTestService(profiles *fakeProfiles, builder *fakeBuilder) (*WalletService, *fakeRecorder) {
	rec := &fakeRecorder{}
	return NewWalletService(WalletDependencies{
		ProfileRepo: profiles,
		Builder:     builder,
		Recorder:    rec,
	}), rec
}

func TestIssueApplePass_Success(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]domain.Profile{
		"u1": {ID: "u1", FirstName: "Ada", Surname: "Lovelace"},
	}}
	builder := &fakeBuilder{data: []byte("pkpass")}
	svc, rec := newTestService(profiles, builder)

	got, err := svc.IssueApplePass(context.Background(), "u1")
	if err != nil {
		t.Fatalf("IssueApplePass: %v", err)
	}
	if string(got) != "pkpass" {
		t.Errorf("unexpected pass bytes %q", got)
	}
	if len(builder.got) != 1 || builder.got[0].ID != "u1" {
		t.Errorf("builder received %+v", builder.got)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != OutcomeSuccess {
		t.Errorf("outcomes = %v", rec.outcomes)
	}
}

func TestIssueApplePass_Errors(t *testing.T) {
	tests := []struct {
		name     string
		profiles *fakeProfiles
		builder  *fakeBuilder
		status   int
		outcome  string
	}{
		{
			name:     "unknown member",
			profiles: &fakeProfiles{},
			builder:  &fakeBuilder{},
			status:   http.StatusNotFound,
			outcome:  OutcomeNotFound,
		},
		{
			name:     "no database",
			profiles: &fakeProfiles{err: repository.ErrNoDatabase},
			builder:  &fakeBuilder{},
			status:   http.StatusServiceUnavailable,
			outcome:  OutcomeFailure,
		},
		{
			name:     "query failure",
			profiles: &fakeProfiles{err: errors.New("connection reset")},
			builder:  &fakeBuilder{},
			status:   http.StatusInternalServerError,
			outcome:  OutcomeFailure,
		},
		{
			name:     "avatar unavailable",
			profiles: &fakeProfiles{profiles: map[string]domain.Profile{"u1": {ID: "u1"}}},
			builder:  &fakeBuilder{err: fmt.Errorf("fetch avatar: %w", wallet.ErrAvatarUnavailable)},
			status:   http.StatusServiceUnavailable,
			outcome:  OutcomeFailure,
		},
		{
			name:     "signing failure",
			profiles: &fakeProfiles{profiles: map[string]domain.Profile{"u1": {ID: "u1"}}},
			builder:  &fakeBuilder{err: errors.New("sign manifest: boom")},
			status:   http.StatusInternalServerError,
			outcome:  OutcomeFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newTestService(tt.profiles, tt.builder)
			got, err := svc.IssueApplePass(context.Background(), "u1")
			if err == nil {
				t.Fatal("expected error")
			}
			if got != nil {
				t.Errorf("expected no bytes on failure, got %d", len(got))
			}
			if de := apperrors.ToDomainError(err); de.HTTPStatus != tt.status {
				t.Errorf("status = %d, want %d", de.HTTPStatus, tt.status)
			}
			if len(rec.outcomes) != 1 || rec.outcomes[0] != tt.outcome {
				t.Errorf("outcomes = %v, want [%s]", rec.outcomes, tt.outcome)
			}
		})
	}
}
