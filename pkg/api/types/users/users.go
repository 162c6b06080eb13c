package users

import "time"

// Registration is a request body to register a user.
type Registration struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Detail is a user in responses. It never contains password.
type Detail struct {
	Id         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	DateJoined time.Time `json:"date_joined"`
}
