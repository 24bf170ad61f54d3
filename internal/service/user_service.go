package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/fsdevblog/docswap/pkg/uow"
)

const DefaultOTPTTL = 10 * time.Minute

type UserServiceArgs struct {
	Hasher      PasswordHasher
	Codes       CodeGenerator
	Mailer      Mailer
	Revocations RevocationStore
	Tokens      tokens.Config
	OTPTTL      time.Duration
}

type UserService struct {
	uow         uow.UOW
	userRepo    UserRepository
	profileRepo ProfileRepository
	hasher      PasswordHasher
	codes       CodeGenerator
	mailer      Mailer
	revocations RevocationStore
	tokens      tokens.Config
	otpTTL      time.Duration
}

func NewUserService(u uow.UOW, args UserServiceArgs) (*UserService, error) {
	userRepo, err := repo[UserRepository](u, repoargs.UserRepoName)
	if err != nil {
		return nil, err
	}
	profileRepo, err := repo[ProfileRepository](u, repoargs.ProfileRepoName)
	if err != nil {
		return nil, err
	}
	otpTTL := args.OTPTTL
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &UserService{
		uow:         u,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		hasher:      args.Hasher,
		codes:       args.Codes,
		mailer:      args.Mailer,
		revocations: args.Revocations,
		tokens:      args.Tokens,
		otpTTL:      otpTTL,
	}, nil
}

type RegisterUserArgs struct {
	Email    string
	Username string
	Password string
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// AuthResult выпущенный токен доступа.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type Profile struct {
	User    *domain.User
	Profile *domain.UserProfile
}

// Register создает неподтвержденного юзера с пустым профилем и отправляет ему код подтверждения.
// Если письмо отправить не удалось, транзакция откатывается.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, error) {
	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, fmt.Errorf("registering user: %w", hashErr)
	}
	code, otpHash, expiresAt, otpErr := s.newOTP()
	if otpErr != nil {
		return nil, fmt.Errorf("registering user: %w", otpErr)
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, err := txRepo[UserRepository](tx, repoargs.UserRepoName)
		if err != nil {
			return err
		}
		profileRepo, err := txRepo[ProfileRepository](tx, repoargs.ProfileRepoName)
		if err != nil {
			return err
		}

		user, err = userRepo.Create(c, repoargs.CreateUser{
			Email:        strings.ToLower(strings.TrimSpace(args.Email)),
			Username:     strings.TrimSpace(args.Username),
			Password:     password,
			OTPHash:      otpHash,
			OTPExpiresAt: expiresAt,
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				return conflict("email or username is already taken")
			}
			return err //nolint:wrapcheck
		}
		if _, err = profileRepo.Create(c, user.ID); err != nil {
			return err //nolint:wrapcheck
		}
		return s.sendOTP(c, user.Email, code)
	})
	if txErr != nil {
		return nil, fmt.Errorf("registering user: %w", txErr)
	}
	return user, nil
}

// VerifyOTP подтверждает email кодом и выпускает токен доступа.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidOTP
		}
		return nil, err //nolint:wrapcheck
	}
	if user.EmailVerified {
		return nil, conflict("email is already verified")
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return nil, domain.ErrInvalidOTP
	}
	if !s.hasher.ComparePassword(code, user.OTPHash) {
		return nil, domain.ErrInvalidOTP
	}

	if err = s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("verifying user %d: %w", user.ID, err)
	}
	user.EmailVerified = true
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	return s.issue(user)
}

// ResendOTP выпускает новый код подтверждения взамен предыдущего.
func (s *UserService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if user.EmailVerified {
		return conflict("email is already verified")
	}

	code, otpHash, expiresAt, err := s.newOTP()
	if err != nil {
		return fmt.Errorf("resending otp: %w", err)
	}
	if err = s.userRepo.UpdateOTP(ctx, user.ID, otpHash, expiresAt); err != nil {
		return fmt.Errorf("resending otp: %w", err)
	}
	return s.sendOTP(ctx, user.Email, code)
}

// Login проверяет пару email/пароль. Неизвестный email и неверный пароль неразличимы для вызывающей стороны.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, args.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err //nolint:wrapcheck
	}
	if !s.hasher.ComparePassword(args.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}
	return s.issue(user)
}

// Logout отзывает токен до момента его естественного истечения.
func (s *UserService) Logout(ctx context.Context, claims *tokens.UserClaims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return domain.ErrUnauthorized
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token of user %d: %w", claims.UserID, err)
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &Profile{User: user, Profile: profile}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, args repoargs.UpdateProfile) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	profile, err := s.profileRepo.Update(ctx, userID, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &Profile{User: user, Profile: profile}, nil
}

func (s *UserService) ListUsers(
	ctx context.Context,
	filter repoargs.UserFilter,
) (*repoargs.PageResult[domain.User], error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return repoargs.NewPageResult(users, total, filter.Page), nil
}

func (s *UserService) SetRole(ctx context.Context, actor domain.Actor, userID int64, role domain.Role) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only administrators can change roles")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "must be one of user, admin")
	}
	if actor.ID == userID {
		return nil, domain.NewValidationError("id", "administrators cannot change their own role")
	}
	return s.userRepo.SetRole(ctx, userID, role) //nolint:wrapcheck
}

func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, userID int64) error {
	if !actor.IsAdmin() {
		return forbidden("only administrators can delete users")
	}
	if actor.ID == userID {
		return domain.NewValidationError("id", "administrators cannot delete themselves")
	}
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, err := txRepo[UserRepository](tx, repoargs.UserRepoName)
		if err != nil {
			return err
		}
		listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
		if err != nil {
			return err
		}
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}

		if err = userRepo.SoftDelete(c, userID); err != nil {
			return err //nolint:wrapcheck
		}

		// активные объявления удаленного пользователя снимаются с продажи, иначе их можно купить.
		ids, err := listingRepo.ActiveIDsByOwner(c, userID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		for _, id := range ids {
			listing, lErr := lockListing(c, listingRepo, id)
			if errors.Is(lErr, domain.ErrRecordNotFound) {
				continue
			}
			if lErr != nil {
				return lErr
			}
			if listing.Status != domain.ListingStatusActive {
				continue
			}
			if _, lErr = withdrawListing(c, listingRepo, documentRepo, listing); lErr != nil {
				return lErr
			}
		}
		return nil
	})
	if txErr != nil {
		return fmt.Errorf("deleting user %d: %w", userID, txErr)
	}
	return nil
}

func (s *UserService) issue(user *domain.User) (*AuthResult, error) {
	token, claims, err := tokens.GenerateUserJWT(user.ID, user.Role, s.tokens)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// newOTP генерирует код и возвращает его вместе с хешем и временем истечения.
func (s *UserService) newOTP() (string, string, time.Time, error) {
	code, err := s.codes.Generate()
	if err != nil {
		return "", "", time.Time{}, err //nolint:wrapcheck
	}
	hash, err := s.hasher.HashPassword(code)
	if err != nil {
		return "", "", time.Time{}, err //nolint:wrapcheck
	}
	return code, hash, time.Now().Add(s.otpTTL).UTC(), nil
}

func (s *UserService) sendOTP(ctx context.Context, email, code string) error {
	body := fmt.Sprintf(
		"Your docswap verification code is %s. It expires in %d minutes.",
		code,
		int(s.otpTTL.Minutes()),
	)
	if err := s.mailer.Send(ctx, email, "Verify your docswap account", body); err != nil {
		return fmt.Errorf("sending otp to %s: %w", email, err)
	}
	return nil
}
