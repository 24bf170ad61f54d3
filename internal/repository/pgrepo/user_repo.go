package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, created_at, updated_at, email, username, password_hash, role, email_verified,
	otp_hash, otp_expires_at, is_deleted, deleted_at`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create создает юзера в базе данных. В случае конфликта email или юзернейма возвращает ошибку
// domain.ErrDuplicateKey, во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, role, otp_hash, otp_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		args.Email, args.Username, args.Password, domain.RoleUser, args.OTPHash, args.OTPExpiresAt,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return user, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// FindByEmail ищет юзера по email без учета регистра. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена.
func (u *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) AND is_deleted = FALSE`, email))
	if err != nil {
		return nil, convertErr(err, "finding user by email %s", email)
	}
	return user, nil
}

func (u *UserRepository) UpdateOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET otp_hash = $2, otp_expires_at = $3, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id, otpHash, expiresAt)
	if err != nil {
		return convertErr(err, "updating otp for user %d", id)
	}
	return requireAffected(tag, "updating otp for user %d", id)
}

// MarkVerified отмечает email подтвержденным и сбрасывает OTP.
func (u *UserRepository) MarkVerified(ctx context.Context, id int64) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET email_verified = TRUE, otp_hash = '', otp_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return convertErr(err, "verifying user %d", id)
	}
	return requireAffected(tag, "verifying user %d", id)
}

func (u *UserRepository) SetRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	user, err := scanUser(u.conn.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+userColumns, id, role))
	if err != nil {
		return nil, convertErr(err, "setting role %s for user %d", role, id)
	}
	return user, nil
}

func (u *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return convertErr(err, "deleting user %d", id)
	}
	return requireAffected(tag, "deleting user %d", id)
}

// List возвращает страницу пользователей, отсортированных по id, и общее их количество.
func (u *UserRepository) List(ctx context.Context, filter repoargs.UserFilter) ([]domain.User, int64, error) {
	w := &whereBuilder{}
	w.add("is_deleted = FALSE")
	if filter.Search != "" {
		w.add("(email ILIKE ? OR username ILIKE ?)", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	total, err := count(ctx, u.conn, `SELECT count(*) FROM users`+w.String(), w.args...)
	if err != nil {
		return nil, 0, convertErr(err, "counting users")
	}

	query, args := w.paginate(`SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY id`, filter.Page)
	rows, err := u.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing users")
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, 0, convertErr(err, "scanning users")
	}
	return users, total, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Role,
		&user.EmailVerified,
		&user.OTPHash,
		&user.OTPExpiresAt,
		&user.IsDeleted,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
