package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackucf/onboard/internal/domain"
)

// ProfileRepository loads the member data used to build passes.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if r.pool == nil {
		return nil, ErrNoDatabase
	}

	const query = `
        SELECT u.id::text, u.first_name, u.surname,
               COALESCE(u.infra_email, ''), COALESCE(u.ops_email, ''),
               d.user_id IS NOT NULL, COALESCE(d.username, ''), COALESCE(d.avatar, '')
        FROM users u
        LEFT JOIN discord_accounts d ON d.user_id = u.id
        WHERE u.id=$1`

	var (
		profile    domain.Profile
		hasDiscord bool
		discord    domain.DiscordProfile
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.Surname,
		&profile.InfraEmail,
		&profile.OpsEmail,
		&hasDiscord,
		&discord.Username,
		&discord.Avatar,
	); err != nil {
		return nil, err
	}
	if hasDiscord {
		profile.Discord = &discord
	}
	return &profile, nil
}

// compile-time interface check
var _ ProfileRepository = (*profileRepository)(nil)
