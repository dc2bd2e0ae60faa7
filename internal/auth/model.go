package auth

// Role identifies what part of the application a signed-in user may access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
)

// Profile is the session identity persisted across restarts. It never carries
// the password.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// FullName returns the display name used to match portal users to patient
// records.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Credential pairs a profile with its password inside the user repository.
type Credential struct {
	Profile
	Password string
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Session is the result of a successful login or registration.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"user"`
}
