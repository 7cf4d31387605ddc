package models

// Dashboard is the landing payload for a signed-in user.
type Dashboard struct {
	Username       string  `json:"username"`
	WelcomeMessage string  `json:"welcomeMessage"`
	Courses        int     `json:"courses"`
	Summary        Summary `json:"summary"`
}
