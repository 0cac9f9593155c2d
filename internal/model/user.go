package model

// User type constants
const (
	UserTypeAdmin   = "admin"
	UserTypeDoctor  = "doctor"
	UserTypePatient = "patient"
)

// User is a staff or patient account. Pass holds whatever the configured
// credential scheme stores: the password itself for plaintext, a hash for bcrypt.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Pass string `json:"pass"`
	Role string `json:"role"`
}

// UserView is what leaves the process; it never carries the password.
type UserView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (u User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Role: u.Role}
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Name string `json:"name" binding:"required" validate:"required"`
	Pass string `json:"pass" binding:"required" validate:"required"`
	Role string `json:"role" binding:"required" validate:"required,oneof=admin doctor patient"`
}

// DefaultUsers seeds an empty user collection.
func DefaultUsers() []User {
	return []User{
		{ID: "u_admin", Name: "admin", Pass: "admin", Role: UserTypeAdmin},
		{ID: "u_doc", Name: "doctor", Pass: "doc123", Role: UserTypeDoctor},
	}
}
