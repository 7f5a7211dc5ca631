package model

type User struct {
	ID           int64   `db:"id" json:"id"`
	Username     string  `db:"username" json:"username"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"` // Never serialized
	Phone        string  `db:"phone" json:"phone"`
	Image        *string `db:"image" json:"image"` // Stored filename, nil when no avatar
}

func (u *User) HasImage() bool {
	return u.Image != nil && *u.Image != ""
}
