package models

// User is the signed-in person, taken from OIDC claims or a client certificate.
// Users are not persisted; the session carries them.
type User struct {
	Sub      string `json:"sub"`      // OIDC subject identifier
	Username string `json:"username"` // Extracted from PKI CN e.g. "heatht" from "Heath Taylor (heatht)"
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// DisplayName returns the friendliest non-empty identifier.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}
