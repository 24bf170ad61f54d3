package repoargs

import "time"

type CreateUser struct {
	Email        string
	Username     string
	Password     string
	OTPHash      string
	OTPExpiresAt time.Time
}

type UserFilter struct {
	Search string
	Page   Page
}

type UpdateProfile struct {
	FullName  string
	Phone     string
	Address   string
	AvatarURL string
}
