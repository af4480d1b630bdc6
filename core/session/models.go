package session

import (
	"github.com/volatiletech/null/v8"

	"schoolhub/restapi"
)

// User is the cached profile of the signed-in account. The backend owns the
// record; this copy lives only inside the session.
type User struct {
	UserID      int         `json:"userId"`
	Username    string      `json:"username"`
	Email       null.String `json:"email"`
	Roles       []string    `json:"roles"`
	Permissions []string    `json:"permissions,omitempty"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   string      `json:"created_at"`
}

// Session is the authenticated identity held by the running client. Token and
// User are set and cleared together; a Session never holds one without the
// other.
type Session struct {
	Token        string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}

// Authenticated reports whether the session represents a signed-in user.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User.UserID != 0
}

// HasRole reports whether the signed-in user carries the given role.
func (s Session) HasRole(role string) bool {
	for _, r := range s.User.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func fromUserInfo(info restapi.UserInfo) Session {
	return Session{
		Token:        info.AccessToken,
		RefreshToken: info.RefreshToken,
		User: User{
			UserID:      info.UserID,
			Username:    info.Username,
			Email:       info.Email,
			Roles:       info.Roles,
			Permissions: info.Permissions,
			IsActive:    info.IsActive,
			CreatedAt:   info.CreatedAt,
		},
	}
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form payload. Confirmation equality is checked
// here; uniqueness belongs to the backend.
type Registration struct {
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}
