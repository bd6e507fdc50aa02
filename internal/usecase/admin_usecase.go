package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/logger"
	repo "pizzeria/internal/repository"
)

// AdminUsecase covers store-admin accounts and their store.
type AdminUsecase struct {
	tx     repo.TransactionManager
	dir    *StoreDirectory
	hasher PasswordHasher
	issuer TokenIssuer
	clock  Clock
}

func NewAdminUsecase(tx repo.TransactionManager, dir *StoreDirectory, hasher PasswordHasher, issuer TokenIssuer, clock Clock) *AdminUsecase {
	return &AdminUsecase{tx: tx, dir: dir, hasher: hasher, issuer: issuer, clock: clock}
}

// StoreInput is the store part of signup, login and store creation.
type StoreInput struct {
	Name    string
	Address *string
	City    *string
	State   *string
	Pincode *string
	Phone   *string
}

func (s StoreInput) address() model.StoreAddress {
	return model.StoreAddress{Address: s.Address, City: s.City, State: s.State, Pincode: s.Pincode, Phone: s.Phone}
}

type AdminSignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Store    StoreInput
}

type AdminLoginInput struct {
	Email    string
	Password string

	// optional; assigns the admin to this store
	Store *StoreInput
}

type AdminProfileInput struct {
	Name  *string
	Email *string
	Phone *string
}

type CompleteSetupInput struct {
	NewPassword string
	Name        *string
	Email       *string
	Phone       *string
}

type AdminOutput struct {
	ID           int64        `json:"id"`
	Username     *string      `json:"username"`
	Name         string       `json:"name"`
	Email        *string      `json:"email"`
	Phone        *string      `json:"phone"`
	Role         string       `json:"role"`
	IsFirstLogin bool         `json:"is_first_login"`
	Store        *StoreOutput `json:"store"`
}

type AdminAuthOutput struct {
	TokenOutput
	FirstLogin bool        `json:"first_login"`
	Admin      AdminOutput `json:"admin"`
}

type StoreWithAdminOutput struct {
	Store    StoreOutput `json:"store"`
	Username string      `json:"username"`

	// shown once; only the hash is stored
	TemporaryPassword string `json:"temporary_password"`
}

// Signup resolves or creates the store, links its locations and creates
// the admin, all in one transaction.
func (u *AdminUsecase) Signup(ctx context.Context, in AdminSignupInput) (AdminAuthOutput, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return AdminAuthOutput{}, err
	}
	if err := checkPassword(in.Password); err != nil {
		return AdminAuthOutput{}, err
	}
	if strings.TrimSpace(in.Store.Name) == "" {
		return AdminAuthOutput{}, NewError(KindValidation, "store name is required")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return AdminAuthOutput{}, internal("hash password", err)
	}

	var admin model.Admin
	var store model.Store
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Admins().FindByEmail(ctx, email); err == nil {
			return NewError(KindConflict, "email already registered")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return internal("find admin", err)
		}

		store, err = u.dir.ResolveOrCreateStore(ctx, r, in.Store.Name, in.Store.address())
		if err != nil {
			return asUsecaseError("resolve store", err)
		}
		if _, err := u.dir.LinkLocationsToStore(ctx, r, store); err != nil {
			return internal("link locations", err)
		}

		admin = model.Admin{
			Name:         strings.TrimSpace(in.Name),
			Email:        &email,
			PasswordHash: hash,
			Phone:        in.Phone,
			StoreID:      &store.ID,
			Role:         model.AdminRoleStoreAdmin,
			IsActive:     true,
		}
		if err := r.Admins().Create(ctx, &admin); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewError(KindConflict, "email already registered")
			}
			return internal("create admin", err)
		}
		return nil
	})
	if err != nil {
		return AdminAuthOutput{}, err
	}

	logger.WithCtx(ctx).Info("admin signed up", "admin_id", admin.ID, "store_id", store.ID)
	return u.issue(admin, &store)
}

// Login checks credentials. With store data the admin is (re)assigned to the
// resolved store; without it a missing store row is recreated.
func (u *AdminUsecase) Login(ctx context.Context, in AdminLoginInput) (AdminAuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var admin model.Admin
	var store model.Store
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		admin, err = r.Admins().FindByEmail(ctx, email)
		if errors.Is(err, repo.ErrNotFound) {
			return errInvalidCredentials
		}
		if err != nil {
			return internal("find admin", err)
		}
		if !u.hasher.Verify(in.Password, admin.PasswordHash) {
			return errInvalidCredentials
		}
		if !admin.IsActive {
			return NewError(KindForbidden, "admin account is inactive")
		}

		if in.Store != nil && strings.TrimSpace(in.Store.Name) != "" {
			store, err = u.dir.ResolveOrCreateStore(ctx, r, in.Store.Name, in.Store.address())
			if err != nil {
				return asUsecaseError("resolve store", err)
			}
			if admin.StoreID == nil || *admin.StoreID != store.ID {
				admin.StoreID = &store.ID
				if err := r.Admins().Update(ctx, &admin); err != nil {
					return internal("update admin", err)
				}
			}
			return nil
		}

		store, err = u.dir.EnsureStoreExists(ctx, r, &admin)
		return asUsecaseError("ensure store", err)
	})
	if err != nil {
		return AdminAuthOutput{}, err
	}
	return u.issue(admin, &store)
}

// LoginByStore authenticates the store's auto-created admin with the store id.
func (u *AdminUsecase) LoginByStore(ctx context.Context, storeID int64, password string) (AdminAuthOutput, error) {
	var admin model.Admin
	var store model.Store
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		store, err = r.Stores().FindByID(ctx, storeID)
		if errors.Is(err, repo.ErrNotFound) {
			return errInvalidCredentials
		}
		if err != nil {
			return internal("load store", err)
		}
		admin, err = r.Admins().FindByStoreID(ctx, storeID)
		if errors.Is(err, repo.ErrNotFound) {
			return errInvalidCredentials
		}
		if err != nil {
			return internal("find admin", err)
		}
		return nil
	})
	if err != nil {
		return AdminAuthOutput{}, err
	}
	if !u.hasher.Verify(password, admin.PasswordHash) {
		return AdminAuthOutput{}, errInvalidCredentials
	}
	if !admin.IsActive {
		return AdminAuthOutput{}, NewError(KindForbidden, "admin account is inactive")
	}
	return u.issue(admin, &store)
}

func (u *AdminUsecase) Me(ctx context.Context, adminID int64) (AdminOutput, error) {
	var out AdminOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		a, err := u.loadAdmin(ctx, r, adminID)
		if err != nil {
			return err
		}
		out, err = u.adminOutput(ctx, r, a)
		return err
	})
	return out, err
}

func (u *AdminUsecase) UpdateMe(ctx context.Context, adminID int64, in AdminProfileInput) (AdminOutput, error) {
	var out AdminOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		a, err := u.loadAdmin(ctx, r, adminID)
		if err != nil {
			return err
		}
		if err := applyProfile(&a, in.Name, in.Email, in.Phone); err != nil {
			return err
		}
		if err := u.saveAdmin(ctx, r, &a); err != nil {
			return err
		}
		out, err = u.adminOutput(ctx, r, a)
		return err
	})
	return out, err
}

func (u *AdminUsecase) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	if err := checkPassword(next); err != nil {
		return err
	}
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		a, err := u.loadAdmin(ctx, r, adminID)
		if err != nil {
			return err
		}
		if !u.hasher.Verify(current, a.PasswordHash) {
			return NewError(KindUnauthorized, "current password is incorrect")
		}
		return u.setPassword(ctx, r, &a, next)
	})
}

// CompleteSetup finishes the mandatory first-login flow.
func (u *AdminUsecase) CompleteSetup(ctx context.Context, adminID int64, in CompleteSetupInput) (AdminOutput, error) {
	if err := checkPassword(in.NewPassword); err != nil {
		return AdminOutput{}, err
	}

	var out AdminOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		a, err := u.loadAdmin(ctx, r, adminID)
		if err != nil {
			return err
		}
		if err := applyProfile(&a, in.Name, in.Email, in.Phone); err != nil {
			return err
		}
		if err := u.setPassword(ctx, r, &a, in.NewPassword); err != nil {
			return err
		}
		out, err = u.adminOutput(ctx, r, a)
		return err
	})
	return out, err
}

// SetStoreActive toggles the acting admin's own store.
func (u *AdminUsecase) SetStoreActive(ctx context.Context, storeID int64, active bool) (StoreOutput, error) {
	var out StoreOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Stores().FindByID(ctx, storeID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "store not found")
		}
		if err != nil {
			return internal("load store", err)
		}
		if s.IsActive != active {
			if err := r.Stores().SetActive(ctx, storeID, active); err != nil {
				return internal("update store", err)
			}
			s.IsActive = active
		}
		out = toStoreOutput(s)
		return nil
	})
	if err == nil {
		logger.WithCtx(ctx).Info("store active flag set", "store_id", storeID, "is_active", active)
	}
	return out, err
}

// CreateStoreWithAdmin creates a store and its first admin "store_<id>"
// with a random password the caller must hand over.
func (u *AdminUsecase) CreateStoreWithAdmin(ctx context.Context, in StoreInput) (StoreWithAdminOutput, error) {
	if strings.TrimSpace(in.Name) == "" {
		return StoreWithAdminOutput{}, NewError(KindValidation, "store name is required")
	}
	password, err := randomPassword(12)
	if err != nil {
		return StoreWithAdminOutput{}, internal("generate password", err)
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return StoreWithAdminOutput{}, internal("hash password", err)
	}

	var out StoreWithAdminOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s := model.Store{
			Name:     strings.TrimSpace(in.Name),
			Address:  in.Address,
			City:     in.City,
			State:    in.State,
			Pincode:  in.Pincode,
			Phone:    in.Phone,
			IsActive: true,
		}
		if err := r.Stores().Create(ctx, &s); err != nil {
			return internal("create store", err)
		}
		if _, err := u.dir.LinkLocationsToStore(ctx, r, s); err != nil {
			return internal("link locations", err)
		}

		username := fmt.Sprintf("store_%d", s.ID)
		a := model.Admin{
			Username:     &username,
			Name:         s.Name + " Admin",
			PasswordHash: hash,
			Phone:        s.Phone,
			StoreID:      &s.ID,
			Role:         model.AdminRoleStoreAdmin,
			IsActive:     true,
			IsFirstLogin: true,
		}
		if err := r.Admins().Create(ctx, &a); err != nil {
			return internal("create admin", err)
		}

		out = StoreWithAdminOutput{Store: toStoreOutput(s), Username: username, TemporaryPassword: password}
		return nil
	})
	if err != nil {
		return StoreWithAdminOutput{}, err
	}
	return out, nil
}

func (u *AdminUsecase) loadAdmin(ctx context.Context, r repo.TxRepos, adminID int64) (model.Admin, error) {
	a, err := r.Admins().FindByID(ctx, adminID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Admin{}, NewError(KindNotFound, "admin not found")
	}
	if err != nil {
		return model.Admin{}, internal("load admin", err)
	}
	return a, nil
}

func (u *AdminUsecase) saveAdmin(ctx context.Context, r repo.TxRepos, a *model.Admin) error {
	if err := r.Admins().Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return NewError(KindConflict, "email already registered")
		}
		return internal("update admin", err)
	}
	return nil
}

func (u *AdminUsecase) setPassword(ctx context.Context, r repo.TxRepos, a *model.Admin, plain string) error {
	hash, err := u.hasher.Hash(plain)
	if err != nil {
		return internal("hash password", err)
	}
	a.PasswordHash = hash
	a.IsFirstLogin = false
	return u.saveAdmin(ctx, r, a)
}

func (u *AdminUsecase) adminOutput(ctx context.Context, r repo.TxRepos, a model.Admin) (AdminOutput, error) {
	out := toAdminOutput(a)
	if a.StoreID == nil {
		return out, nil
	}
	s, err := r.Stores().FindByID(ctx, *a.StoreID)
	if errors.Is(err, repo.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return AdminOutput{}, internal("load store", err)
	}
	so := toStoreOutput(s)
	out.Store = &so
	return out, nil
}

func (u *AdminUsecase) issue(a model.Admin, s *model.Store) (AdminAuthOutput, error) {
	if a.StoreID == nil {
		return AdminAuthOutput{}, NewError(KindForbidden, "admin is not assigned to a store")
	}
	token, exp, err := u.issuer.IssueAdminToken(a.ID, *a.StoreID, u.clock.Now())
	if err != nil {
		return AdminAuthOutput{}, internal("issue token", err)
	}
	out := AdminAuthOutput{
		TokenOutput: TokenOutput{AccessToken: token, TokenType: "bearer", ExpiresAt: exp},
		FirstLogin:  a.IsFirstLogin,
		Admin:       toAdminOutput(a),
	}
	if s != nil && s.ID != 0 {
		so := toStoreOutput(*s)
		out.Admin.Store = &so
	}
	return out, nil
}

func applyProfile(a *model.Admin, name, email, phone *string) error {
	if name != nil && strings.TrimSpace(*name) != "" {
		a.Name = strings.TrimSpace(*name)
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		e, err := normalizeEmail(*email)
		if err != nil {
			return err
		}
		a.Email = &e
	}
	if phone != nil {
		a.Phone = phone
	}
	return nil
}

func toAdminOutput(a model.Admin) AdminOutput {
	return AdminOutput{
		ID:           a.ID,
		Username:     a.Username,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Role:         a.Role,
		IsFirstLogin: a.IsFirstLogin,
	}
}

// asUsecaseError keeps usecase errors and hides everything else.
func asUsecaseError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return internal(op, err)
}

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomPassword(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
