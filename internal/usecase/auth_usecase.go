package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

const minPasswordLen = 8

// AuthUsecase handles customer registration and login.
type AuthUsecase struct {
	tx     repo.TransactionManager
	hasher PasswordHasher
	issuer TokenIssuer
	clock  Clock
}

func NewAuthUsecase(tx repo.TransactionManager, hasher PasswordHasher, issuer TokenIssuer, clock Clock) *AuthUsecase {
	return &AuthUsecase{tx: tx, hasher: hasher, issuer: issuer, clock: clock}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserOutput struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfileInput leaves nil fields unchanged. An empty phone clears it.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

type TokenOutput struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserAuthOutput struct {
	TokenOutput
	User UserOutput `json:"user"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserAuthOutput, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return UserAuthOutput{}, err
	}
	if err := checkPassword(in.Password); err != nil {
		return UserAuthOutput{}, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserAuthOutput{}, internal("hash password", err)
	}

	user := model.User{Email: email, PasswordHash: hash, Name: strings.TrimSpace(in.Name), Phone: optional(in.Phone), IsActive: true}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByEmail(ctx, email); err == nil {
			return NewError(KindConflict, "email already registered")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return internal("find user", err)
		}
		if err := r.Users().Create(ctx, &user); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewError(KindConflict, "email already registered")
			}
			return internal("create user", err)
		}
		return nil
	})
	if err != nil {
		return UserAuthOutput{}, err
	}
	return u.issue(user)
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (UserAuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		user, err = r.Users().FindByEmail(ctx, email)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return UserAuthOutput{}, errInvalidCredentials
	}
	if err != nil {
		return UserAuthOutput{}, internal("find user", err)
	}
	if !user.IsActive {
		return UserAuthOutput{}, NewError(KindForbidden, "account is inactive")
	}
	if !u.hasher.Verify(in.Password, user.PasswordHash) {
		return UserAuthOutput{}, errInvalidCredentials
	}
	return u.issue(user)
}

func (u *AuthUsecase) issue(user model.User) (UserAuthOutput, error) {
	token, exp, err := u.issuer.IssueUserToken(user.ID, u.clock.Now())
	if err != nil {
		return UserAuthOutput{}, internal("issue token", err)
	}
	return UserAuthOutput{
		TokenOutput: TokenOutput{AccessToken: token, TokenType: "bearer", ExpiresAt: exp},
		User:        toUserOutput(user),
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	var user model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		user, err = u.activeUser(ctx, r, userID)
		return err
	})
	if err != nil {
		return UserOutput{}, err
	}
	return toUserOutput(user), nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserOutput, error) {
	var user model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		user, err = u.activeUser(ctx, r, userID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return NewError(KindValidation, "name must not be empty")
			}
			user.Name = name
		}
		if in.Phone != nil {
			user.Phone = optional(*in.Phone)
		}
		if err := r.Users().UpdateProfile(ctx, user.ID, user.Name, user.Phone, u.clock.Now()); err != nil {
			return internal("update user", err)
		}
		return nil
	})
	if err != nil {
		return UserOutput{}, err
	}
	return toUserOutput(user), nil
}

// activeUser treats a deleted or deactivated account like a bad token.
func (u *AuthUsecase) activeUser(ctx context.Context, r repo.TxRepos, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewError(KindUnauthorized, "unauthorized")
	}
	user, err := r.Users().FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewError(KindUnauthorized, "unauthorized")
	}
	if err != nil {
		return model.User{}, internal("find user", err)
	}
	if !user.IsActive {
		return model.User{}, NewError(KindForbidden, "account is inactive")
	}
	return user, nil
}

func toUserOutput(user model.User) UserOutput {
	return UserOutput{ID: user.ID, Email: user.Email, Name: user.Name, Phone: user.Phone}
}

// optional maps blank input to NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var errInvalidCredentials = NewError(KindUnauthorized, "invalid email or password")

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", NewError(KindValidation, "invalid email format")
	}
	return email, nil
}

func checkPassword(pw string) error {
	if len(pw) < minPasswordLen {
		return NewError(KindValidation, "password must be at least 8 characters")
	}
	return nil
}
