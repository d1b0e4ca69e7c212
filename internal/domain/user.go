package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the authenticated actor reconstructed from token claims.
// How the role was established is the auth layer's concern; the core only
// checks it against the transition guard table.
type User struct {
	ID    string `json:"id"` // UUID
	Email string `json:"email"`
	Role  string `json:"role"`
}
