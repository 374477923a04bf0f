package models

// User is a portal account. Accounts are provisioned out of band in the
// users file; the portal only authenticates them.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
