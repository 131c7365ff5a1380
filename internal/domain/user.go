package domain

// User is a registered shop account.
// Password is kept exactly as supplied at registration.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}
