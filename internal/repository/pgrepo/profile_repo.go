package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `user_id, full_name, phone, address, avatar_url, updated_at`

type ProfileRepository struct {
	conn uow.DBTX
}

func NewProfileRepository(conn uow.DBTX) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// Create создает пустой профиль пользователя.
func (p *ProfileRepository) Create(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	profile, err := scanProfile(p.conn.QueryRow(ctx,
		`INSERT INTO user_profiles (user_id) VALUES ($1) RETURNING `+profileColumns, userID))
	if err != nil {
		return nil, convertErr(err, "creating profile for user %d", userID)
	}
	return profile, nil
}

func (p *ProfileRepository) Get(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	profile, err := scanProfile(p.conn.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, convertErr(err, "getting profile for user %d", userID)
	}
	return profile, nil
}

func (p *ProfileRepository) Update(
	ctx context.Context,
	userID int64,
	args repoargs.UpdateProfile,
) (*domain.UserProfile, error) {
	profile, err := scanProfile(p.conn.QueryRow(ctx, `
		UPDATE user_profiles SET full_name = $2, phone = $3, address = $4, avatar_url = $5, updated_at = now()
		WHERE user_id = $1
		RETURNING `+profileColumns,
		userID, args.FullName, args.Phone, args.Address, args.AvatarURL,
	))
	if err != nil {
		return nil, convertErr(err, "updating profile for user %d", userID)
	}
	return profile, nil
}

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := row.Scan(&p.UserID, &p.FullName, &p.Phone, &p.Address, &p.AvatarURL, &p.UpdatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}
