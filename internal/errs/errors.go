package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrUserAlreadyExists  = Error("user already exists")
	ErrUserNotFound       = Error("user not found")
	ErrWrongPassword      = Error("wrong password")
	ErrInvalidToken       = Error("invalid token")
	ErrInvalidEmail       = Error("invalid email")
	ErrInvalidPassword    = Error("invalid password")
	ErrInvalidRole        = Error("invalid role")
	ErrInvalidUser        = Error("invalid user")
	ErrInvalidRequest     = Error("invalid request")
	ErrInvalidParams      = Error("invalid params")
	ErrFullName           = Error("full name is empty or too short")
	ErrUnauthorized       = Error("unauthorized")

	// Missing conversations and forbidden conversations are reported with
	// the same error so callers cannot probe which ids exist.
	ErrConversationNotFound = Error("conversation not found or access denied")

	ErrEmptyMessageContent   = Error("message content is empty")
	ErrSameParticipants      = Error("conversation needs two distinct participants")
	ErrInvalidConversationId = Error("invalid conversation id")

	ErrNoFileUploaded           = Error("no file uploaded")
	ErrUnableToOpenUploadedFile = Error("unable to open uploaded file")
	ErrUnableToUploadFile       = Error("unable to upload file")
	ErrUnableToUpdateAvatar     = Error("unable to update avatar")
)
