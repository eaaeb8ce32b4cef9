// Package identity stands in for the external identity provider: it owns
// password policy and hashing so the rest of the service never touches
// raw credentials.
package identity

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"projecthub-service/internal/apperror"
)

// Provider validates and hashes credentials
type Provider interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

// PasswordPolicy mirrors the usual identity-provider defaults
type PasswordPolicy struct {
	MinLength              int
	RequireUppercase       bool
	RequireLowercase       bool
	RequireDigit           bool
	RequireNonAlphanumeric bool
}

// DefaultPolicy returns the policy new deployments start with
func DefaultPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:              6,
		RequireUppercase:       true,
		RequireLowercase:       true,
		RequireDigit:           true,
		RequireNonAlphanumeric: true,
	}
}

// LocalProvider implements Provider with bcrypt hashing
type LocalProvider struct {
	policy PasswordPolicy
}

// NewLocalProvider creates a provider enforcing the given policy
func NewLocalProvider(policy PasswordPolicy) *LocalProvider {
	return &LocalProvider{policy: policy}
}

// ValidatePassword checks the password against the policy. Violations are
// validation errors attributed to the password field.
func (p *LocalProvider) ValidatePassword(password string) error {
	if len(password) < p.policy.MinLength {
		return apperror.ValidationField("password", "password is too short")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if p.policy.RequireUppercase && !hasUpper {
		return apperror.ValidationField("password", "password must contain an uppercase letter")
	}
	if p.policy.RequireLowercase && !hasLower {
		return apperror.ValidationField("password", "password must contain a lowercase letter")
	}
	if p.policy.RequireDigit && !hasDigit {
		return apperror.ValidationField("password", "password must contain a digit")
	}
	if p.policy.RequireNonAlphanumeric && !hasSymbol {
		return apperror.ValidationField("password", "password must contain a non-alphanumeric character")
	}
	return nil
}

// HashPassword hashes the password with bcrypt
func (p *LocalProvider) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash
func (p *LocalProvider) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
