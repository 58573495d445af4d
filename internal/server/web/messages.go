package web

// Flash notices shown to the user.
const (
	msgLoginRequired  = "Please log in to access this page."
	msgDuplicateEmail = "You have already signed up with this email, log in instead"
	msgUnknownEmail   = "Email not found, sign up instead"
	msgBadCredential  = "Incorrect password"
	msgInvalidForm    = "Please fill in all required fields."
	msgWrongUser      = "You can only access your own tasks."
	msgForbidden      = "You can only change your own tasks."
	msgTaskDeleted    = "Task deleted."
	msgLoggedOut      = "You have been logged out."
	msgTooManyTries   = "Too many attempts, please try again later."
)
