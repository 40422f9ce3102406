package apperrors

var (
	ErrUserExists         = Duplicate("Username or email already exists")
	ErrUserNotFound       = NotFound("User not found")
	ErrBadCredentials     = Unauthorized("Incorrect username or password")
	ErrNotVerified        = Unauthorized("Email address not verified. Please check your email to verify your account before logging in")
	ErrBadToken           = Unauthorized("Could not validate credentials")
	ErrBadResetToken      = InvalidArg("Invalid or expired reset token")
	ErrChatNotFound       = NotFound("Chat not found")
	ErrMessageNotFound    = NotFound("Message not found")
	ErrVariationNotFound  = NotFound("Message has no variation to continue from")
	ErrValidatorNotFound  = NotFound("Validator not found")
	ErrNoActiveValidators = NotFound("No active validators available")
	ErrNotChatOwner       = Forbidden("User cannot perform this action")
)
