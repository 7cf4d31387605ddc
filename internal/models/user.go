package models

import "time"

// User is a registered account. Password holds the encoded secret and never
// leaves the service layer.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Info strips credentials for API responses.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is created on successful login and torn down on logout.
type Session struct {
	ID         string     `json:"id"`
	UserID     int64      `json:"userId"`
	Username   string     `json:"username"`
	LoginTime  time.Time  `json:"loginTime"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	Active     bool       `json:"isActive"`
	LogoutTime *time.Time `json:"logoutTime,omitempty"`
}

// ValidAt reports whether the session is active and unexpired at now.
func (s Session) ValidAt(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// RememberMe is the persisted "remember me" preference of the login form.
type RememberMe struct {
	Remember bool   `json:"remember"`
	Username string `json:"username,omitempty"`
}
