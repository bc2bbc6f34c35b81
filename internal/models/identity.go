package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// IdentityRepo is the account-creation boundary of the external identity
// provider. Token verification lives in helpers; this interface only covers
// the signup side effect.
type IdentityRepo interface {
	CreateAccount(email, password, name string) (string, error)
}

type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
	}
}

// CreateAccount registers the credentials with the identity provider and
// returns the provider-issued subject id.
func (su *SupabaseRepo) CreateAccount(email, password, name string) (string, error) {
	signed := types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"name": name,
		},
	}

	res, err := su.supabaseClient.Auth.Signup(signed)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "already registered") ||
			strings.Contains(errMsg, "already Registered") ||
			strings.Contains(errMsg, "unique constraint") {
			return "", ErrDuplicateUser
		}
		return "", fmt.Errorf("failed to create provider account: %v", err)
	}

	uid := res.ID
	if uid == uuid.Nil {
		uid = res.Session.User.ID
	}
	if uid == uuid.Nil {
		return "", fmt.Errorf("provider returned no subject id")
	}

	return uid.String(), nil
}
