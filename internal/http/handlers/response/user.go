package response

import (
	"natours/internal/core/domain/user"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = string(du.ID)
	u.Name = du.Name
	u.Email = string(du.Email)
	u.Role = string(du.Role)
	u.CreatedAt = du.CreatedAt
}

func NewUser(du user.User) User {
	u := User{}
	u.FromDomainUser(du)
	return u
}

type UserWithToken struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func NewUserWithToken(du user.User, token user.SessionToken) UserWithToken {
	return UserWithToken{Token: string(token), User: NewUser(du)}
}
