package helpers

import "github.com/golang-jwt/jwt/v5"

// CustomClaims mirrors the identity provider's access-token payload.
type CustomClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Name returns the display name claimed by the identity provider, if any.
func (cc *CustomClaims) Name() string {
	if cc.UserMetadata == nil {
		return ""
	}
	if name, ok := cc.UserMetadata["name"].(string); ok {
		return name
	}
	if name, ok := cc.UserMetadata["full_name"].(string); ok {
		return name
	}
	return ""
}

// AuthUser is what the auth middleware stores in the request context: the
// verified token claims plus the role resolved from the user directory. Role
// is empty when the caller has authenticated but never touched the directory.
type AuthUser struct {
	UID   string
	Email string
	Name  string
	Role  string
}

func (au *AuthUser) IsAdmin() bool {
	return au.Role == "admin"
}

func (au *AuthUser) HasRole(role string) bool {
	return au.Role == role
}
