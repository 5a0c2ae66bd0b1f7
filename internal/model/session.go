package model

// Session is what a client receives after register or login.
type Session struct {
	Token     string    `json:"token"`
	Principal Principal `json:"user"`
}
