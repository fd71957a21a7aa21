package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// PrincipalFromClaims rebuilds the caller from verified access token claims
	PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error)
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	now := j.now()
	expiresAt = now.Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sub":         p.ID,
		"employee_id": p.ID,
		"name":        p.Name,
		"role":        string(p.Role),
		"branch_id":   p.BranchID,
		"type":        tokenTypeAccess,
		"iat":         now.Unix(),
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	if t, _ := claims["type"].(string); t != tokenTypeAccess {
		return user.Principal{}, fmt.Errorf("unexpected token type %q", t)
	}

	id, _ := claims["employee_id"].(string)
	if id == "" {
		return user.Principal{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	roleClaim, _ := claims["role"].(string)
	role := user.Role(roleClaim)
	if !user.ValidRole(role) {
		return user.Principal{}, fmt.Errorf("%w: %q", user.ErrInvalidRole, roleClaim)
	}

	branchID, _ := claims["branch_id"].(string)
	if branchID == "" && role != user.RoleOwner {
		return user.Principal{}, fmt.Errorf("branch_id claim is required for role %s", role)
	}

	name, _ := claims["name"].(string)

	return user.Principal{
		ID:       id,
		Name:     name,
		Role:     role,
		BranchID: branchID,
	}, nil
}
