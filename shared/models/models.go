package models

// RoleBasedAuthority is the authority granted to a credential.
type RoleBasedAuthority string

const (
	RoleUser  RoleBasedAuthority = "ROLE_USER"
	RoleAdmin RoleBasedAuthority = "ROLE_ADMIN"
)

// Valid reports whether r is one of the known authorities.
func (r RoleBasedAuthority) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is the persisted identity record. It owns at most one Credential.
type User struct {
	UserID     int         `json:"userId" db:"user_id"`
	FirstName  string      `json:"firstName" db:"first_name"`
	LastName   string      `json:"lastName" db:"last_name"`
	ImageURL   string      `json:"imageUrl,omitempty" db:"image_url"`
	Email      string      `json:"email" db:"email"`
	Phone      string      `json:"phone" db:"phone"`
	Credential *Credential `json:"credential,omitempty" db:"-"`
}

// Credential is the login record of a User. Its CredentialID always equals
// the owning user's UserID; UserID is the back-reference to that owner.
type Credential struct {
	CredentialID            int                `json:"credentialId" db:"credential_id"`
	UserID                  int                `json:"userId" db:"user_id"`
	Username                string             `json:"username" db:"username"`
	Password                string             `json:"password" db:"password"`
	RoleBasedAuthority      RoleBasedAuthority `json:"roleBasedAuthority" db:"role_based_authority"`
	IsEnabled               bool               `json:"isEnabled" db:"is_enabled"`
	IsAccountNonExpired     bool               `json:"isAccountNonExpired" db:"is_account_non_expired"`
	IsAccountNonLocked      bool               `json:"isAccountNonLocked" db:"is_account_non_locked"`
	IsCredentialsNonExpired bool               `json:"isCredentialsNonExpired" db:"is_credentials_non_expired"`
}

// AttachCredential links c to u using the shared key: both the credential id
// and its back-reference are set to u.UserID. A nil c detaches the credential.
func (u *User) AttachCredential(c *Credential) {
	if c != nil {
		c.CredentialID = u.UserID
		c.UserID = u.UserID
	}
	u.Credential = c
}
