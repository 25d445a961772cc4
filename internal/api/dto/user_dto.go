package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spec-kit/todo-service/internal/domain"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// LoginRequest payload for login. Presence is checked by the handler so the
// message does not reveal which field was wrong.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateMeRequest payload for profile changes. Password is decoded only so
// that its presence can be rejected.
type UpdateMeRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	Password        *string `json:"password" validate:"-"`
	PasswordConfirm *string `json:"passwordConfirm" validate:"-"`

	passwordKeySent bool
}

// UnmarshalJSON records whether a password key was sent at all, so that
// {"password": null} is caught as well.
func (r *UpdateMeRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateMeRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*r = UpdateMeRequest(decoded)
	for key := range keys {
		if strings.EqualFold(key, "password") || strings.EqualFold(key, "passwordConfirm") {
			r.passwordKeySent = true
		}
	}
	return nil
}

// HasPassword reports whether the client tried to change the password here.
func (r UpdateMeRequest) HasPassword() bool {
	return r.passwordKeySent || r.Password != nil || r.PasswordConfirm != nil
}

// ToProfileUpdate converts the request into a domain update.
func (r UpdateMeRequest) ToProfileUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{Name: r.Name, Email: r.Email}
}

// UpdatePasswordRequest payload for password changes.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a domain user. The password hash never leaves the domain type.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// UserEnvelope is the data wrapper around a user.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Status    string       `json:"status"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Data      UserEnvelope `json:"data"`
}

// TokenResponse is returned by password changes.
type TokenResponse struct {
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
