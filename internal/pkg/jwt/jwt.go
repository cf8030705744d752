package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider and resolves
// them into a user.Principal. Tokens are HS256 with user_id, role and branch_ids.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	Principal(claims map[string]interface{}) (user.Principal, error)
	Verifier() func(http.Handler) http.Handler
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken signs a token for p. Production tokens come from the
// identity provider; this exists for local tooling and tests.
func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	branchIDs := p.BranchIDs
	if branchIDs == nil {
		branchIDs = []string{}
	}

	claims := map[string]interface{}{
		"user_id":    p.UserID,
		"role":       string(p.Role),
		"branch_ids": branchIDs,
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// Verifier looks for a token in the Authorization header, the jwt cookie and
// finally the "token" query parameter, which EventSource clients rely on.
func (j *JWTService) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(j.tokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, tokenFromQuery)
}

func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// Principal converts verified claims into a caller identity.
func (j *JWTService) Principal(claims map[string]interface{}) (user.Principal, error) {
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return user.Principal{}, user.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Principal{}, user.ErrInvalidToken
	}

	role := user.Role(fmt.Sprint(claims["role"]))
	if !user.IsValidRole(role) {
		return user.Principal{}, user.ErrInvalidRole
	}

	p := user.Principal{UserID: userID, Role: role}

	// After a JSON round trip branch_ids arrives as []interface{}
	switch ids := claims["branch_ids"].(type) {
	case []string:
		p.BranchIDs = append(p.BranchIDs, ids...)
	case []interface{}:
		for _, id := range ids {
			s, ok := id.(string)
			if !ok {
				return user.Principal{}, user.ErrInvalidToken
			}
			p.BranchIDs = append(p.BranchIDs, s)
		}
	case nil:
	default:
		return user.Principal{}, user.ErrInvalidToken
	}

	return p, nil
}
