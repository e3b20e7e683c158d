// Package mapper converts between persisted users and their API shape.
package mapper

import (
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/dto"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
)

// ToTransfer returns nil for a nil user.
func ToTransfer(u *models.User) *dto.User {
	if u == nil {
		return nil
	}
	out := &dto.User{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if c := u.Credential; c != nil {
		out.Credential = &dto.Credential{
			CredentialID:            c.CredentialID,
			Username:                c.Username,
			Password:                c.Password,
			RoleBasedAuthority:      c.RoleBasedAuthority,
			IsEnabled:               c.IsEnabled,
			IsAccountNonExpired:     c.IsAccountNonExpired,
			IsAccountNonLocked:      c.IsAccountNonLocked,
			IsCredentialsNonExpired: c.IsCredentialsNonExpired,
		}
	}
	return out
}

// ToDomain returns nil for a nil transfer object. The credential id in the
// input is ignored: the rebuilt credential always takes the user's id.
func ToDomain(in *dto.User) *models.User {
	if in == nil {
		return nil
	}
	u := &models.User{
		UserID:    in.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		ImageURL:  in.ImageURL,
		Email:     in.Email,
		Phone:     in.Phone,
	}
	if c := in.Credential; c != nil {
		u.AttachCredential(&models.Credential{
			Username:                c.Username,
			Password:                c.Password,
			RoleBasedAuthority:      c.RoleBasedAuthority,
			IsEnabled:               c.IsEnabled,
			IsAccountNonExpired:     c.IsAccountNonExpired,
			IsAccountNonLocked:      c.IsAccountNonLocked,
			IsCredentialsNonExpired: c.IsCredentialsNonExpired,
		})
	}
	return u
}

// ToTransferList never returns nil, so an empty result encodes as [].
func ToTransferList(users []models.User) []*dto.User {
	out := make([]*dto.User, 0, len(users))
	for i := range users {
		out = append(out, ToTransfer(&users[i]))
	}
	return out
}
