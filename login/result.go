package login

const (
	welcomeMsg = "Welcome to the password protected area "
	failureMsg = "Username and/or password incorrect."
)

// Result is the outcome of a login attempt.
type Result struct {
	Authenticated bool
	// Username is the user name as it was received, not as it's stored.
	Username string
	// Avatar is the stored avatar reference of the authenticated user.
	Avatar string
	// Err is the store error that caused the attempt to fail, if any. It's for
	// logging only; the rendered output is the same as for wrong credentials.
	Err error
}

// HTML renders the result as an HTML fragment. The user name and avatar are
// embedded as is, without escaping.
func (r Result) HTML() string {
	if !r.Authenticated {
		return "<pre><br />" + failureMsg + "</pre>"
	}

	return "<p>" + welcomeMsg + r.Username + "</p>" +
		`<img src="` + r.Avatar + `" />`
}

// Message renders the result as plain text.
func (r Result) Message() string {
	if !r.Authenticated {
		return failureMsg
	}

	return welcomeMsg + r.Username
}
