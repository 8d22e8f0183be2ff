package bot

// UserInputError is a problem with what the user asked for. Its message is
// shown to them as is.
type UserInputError struct {
	Message string
}

func (e *UserInputError) Error() string { return e.Message }

func NewUserInputError(msg string) *UserInputError {
	return &UserInputError{Message: msg}
}
