package handler

import "github.com/skillbridge/session-gateway/internal/core/domain"

type signupRequest struct {
	Name            string `json:"name"             validate:"required,max=120"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role"             validate:"required,oneof=student employer"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// From is the page the login form was opened from, if any.
	From string `json:"from"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type profileRequest struct {
	Name     *string   `json:"name"     validate:"omitempty,min=1,max=120"`
	Email    *string   `json:"email"    validate:"omitempty,email"`
	Avatar   *string   `json:"avatar"   validate:"omitempty,url"`
	Bio      *string   `json:"bio"      validate:"omitempty,max=2000"`
	Skills   *[]string `json:"skills"`
	Location *string   `json:"location" validate:"omitempty,max=120"`
	Website  *string   `json:"website"  validate:"omitempty,url"`
}

func (r profileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:     r.Name,
		Email:    r.Email,
		Avatar:   r.Avatar,
		Bio:      r.Bio,
		Skills:   r.Skills,
		Location: r.Location,
		Website:  r.Website,
	}
}

type authResponse struct {
	User     domain.Identity `json:"user"`
	Redirect string          `json:"redirect"`
}

type userResponse struct {
	User domain.Identity `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	State   domain.SessionState `json:"state"`
	Loading bool                `json:"loading"`
	User    *domain.Identity    `json:"user,omitempty"`
}

type navigationResponse struct {
	Items []domain.NavItem `json:"items"`
}

type pageResponse struct {
	Page  string           `json:"page"`
	Path  string           `json:"path"`
	User  *domain.Identity `json:"user,omitempty"`
	From  string           `json:"from,omitempty"`
	Links []domain.NavItem `json:"links,omitempty"`
}
