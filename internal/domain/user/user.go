package user

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Actor returns the caller identity this user acts as once authenticated.
func (u *User) Actor() Actor {
	tier := TierUser
	if u.IsAdmin {
		tier = TierAdmin
	}
	return Actor{UserID: u.ID, Name: u.Name, Tier: tier}
}
