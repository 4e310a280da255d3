package models

// Roles a user can hold
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// NotApplicable fills studentId, course and section for users that have none
const NotApplicable = "N/A"

// User represents an admin, staff member or customer of the shop
type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	StudentID     string `json:"student_id"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Course        string `json:"course"`
	Section       string `json:"section"`
	Username      string `json:"username"`
	Password      string `json:"-"`
	Role          string `json:"role"` // "admin", "staff" or "customer"
	Active        bool   `json:"active"`
}

// IsAdmin reports whether the user holds the admin role
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsStaff reports whether the user holds the staff role
func (u User) IsStaff() bool { return u.Role == RoleStaff }

// IsCustomer reports whether the user holds the customer role
func (u User) IsCustomer() bool { return u.Role == RoleCustomer }

// Session carries the acting identity into operations that need it.
// A nil User is a guest.
type Session struct {
	User *User
}

// GuestSession returns a session without an authenticated user
func GuestSession() Session { return Session{} }

// NewSession returns a session acting as u
func NewSession(u User) Session { return Session{User: &u} }

// IsGuest reports whether no user is attached
func (s Session) IsGuest() bool { return s.User == nil }

// HasRole reports whether the acting user holds role
func (s Session) HasRole(role string) bool {
	return s.User != nil && s.User.Role == role
}

// Name returns the acting user's display name, "Guest" when anonymous
func (s Session) Name() string {
	if s.User == nil {
		return "Guest"
	}
	return s.User.Name
}
