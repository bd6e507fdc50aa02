package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTIssuer signs and verifies HS256 access tokens for customers and
// store admins.
type JWTIssuer struct {
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
}

func NewJWTIssuer(secret string, userTTL, adminTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:   []byte(secret),
		userTTL:  userTTL,
		adminTTL: adminTTL,
	}
}

type UserClaims struct {
	UserID int64
	Expiry time.Time
}

type AdminClaims struct {
	AdminID int64
	StoreID int64
	Expiry  time.Time
}

func (i *JWTIssuer) IssueUserToken(userID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.userTTL)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": RoleUser,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	return i.sign(claims, expiresAt)
}

func (i *JWTIssuer) IssueAdminToken(adminID int64, storeID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.adminTTL)
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"store_id": storeID,
		"role":     RoleAdmin,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}
	return i.sign(claims, expiresAt)
}

func (i *JWTIssuer) sign(claims jwt.MapClaims, expiresAt time.Time) (string, time.Time, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (i *JWTIssuer) ParseUserToken(raw string) (UserClaims, error) {
	claims, err := i.parse(raw, RoleUser)
	if err != nil {
		return UserClaims{}, err
	}
	userID, err := claimInt64(claims["sub"])
	if err != nil || userID <= 0 {
		return UserClaims{}, ErrInvalidToken
	}
	exp, _ := claims.GetExpirationTime()
	return UserClaims{UserID: userID, Expiry: exp.Time}, nil
}

func (i *JWTIssuer) ParseAdminToken(raw string) (AdminClaims, error) {
	claims, err := i.parse(raw, RoleAdmin)
	if err != nil {
		return AdminClaims{}, err
	}
	adminID, err := claimInt64(claims["admin_id"])
	if err != nil || adminID <= 0 {
		return AdminClaims{}, ErrInvalidToken
	}
	storeID, err := claimInt64(claims["store_id"])
	if err != nil || storeID <= 0 {
		return AdminClaims{}, ErrInvalidToken
	}
	exp, _ := claims.GetExpirationTime()
	return AdminClaims{AdminID: adminID, StoreID: storeID, Expiry: exp.Time}, nil
}

func (i *JWTIssuer) parse(raw string, role string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || tok == nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if r, _ := claims["role"].(string); r != role {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// numeric claims decode as float64; sub is a string
func claimInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, ErrInvalidToken
	}
}
