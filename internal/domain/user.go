package domain

// User is the profile record kept in session storage under KeyUser.
type User struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	JoinDate  string `json:"joinDate,omitempty"`
}

// DisplayName is FirstName when set, otherwise Username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
