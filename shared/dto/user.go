// Package dto holds the shapes exchanged with API clients.
package dto

import "github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"

type User struct {
	UserID     int         `json:"userId"`
	FirstName  string      `json:"firstName" validate:"max=255"`
	LastName   string      `json:"lastName" validate:"max=255"`
	ImageURL   string      `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Email      string      `json:"email" validate:"required,email"`
	Phone      string      `json:"phone" validate:"max=32"`
	Credential *Credential `json:"credential,omitempty"`
}

type Credential struct {
	CredentialID            int                       `json:"credentialId"`
	Username                string                    `json:"username" validate:"required,max=255"`
	Password                string                    `json:"password,omitempty"`
	RoleBasedAuthority      models.RoleBasedAuthority `json:"roleBasedAuthority" validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
	IsEnabled               bool                      `json:"isEnabled"`
	IsAccountNonExpired     bool                      `json:"isAccountNonExpired"`
	IsAccountNonLocked      bool                      `json:"isAccountNonLocked"`
	IsCredentialsNonExpired bool                      `json:"isCredentialsNonExpired"`
}
