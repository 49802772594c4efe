package model

// Actor roles. Every authenticated principal carries exactly one of these.
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleUser   = "user"
)

// Admin is a back-office credential record. It goes through the same
// authentication interface as doctors and users instead of an env-var
// comparison; the initial record is seeded at startup.
type Admin struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
