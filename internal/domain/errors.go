package domain

import "errors"

// Domain errors (для бизнес-логики)
var (
	// Validation errors
	ErrMissingColumns  = errors.New("required columns not found")
	ErrEmptyField      = errors.New("required field is empty")
	ErrNoRecords       = errors.New("no records to process")
	ErrMissingTemplate = errors.New("template team id is not configured")

	// Auth errors
	ErrAuthFailed = errors.New("token acquisition failed")

	// Lookup errors
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrTeamNotFound  = errors.New("team not found")

	// Conflict errors
	ErrAlreadyMember = errors.New("user is already a member")
	ErrAlreadyExists = errors.New("entity already exists")

	// Safety errors
	ErrConfirmationRequired = errors.New("confirmation phrase mismatch")
)

// HTTPError описывает тело ошибки для ответов API.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrMissingColumns:       {Code: "MISSING_COLUMNS", Message: "required columns not found in file"},
	ErrEmptyField:           {Code: "EMPTY_FIELD", Message: "a required field is empty"},
	ErrNoRecords:            {Code: "NO_RECORDS", Message: "file contains no records"},
	ErrMissingTemplate:      {Code: "NO_TEMPLATE", Message: "template team id is not configured"},
	ErrAuthFailed:           {Code: "AUTH_FAILED", Message: "could not acquire an access token"},
	ErrUserNotFound:         {Code: "NOT_FOUND", Message: "user not found"},
	ErrGroupNotFound:        {Code: "NOT_FOUND", Message: "group not found"},
	ErrTeamNotFound:         {Code: "NOT_FOUND", Message: "team not found"},
	ErrAlreadyExists:        {Code: "ALREADY_EXISTS", Message: "entity already exists"},
	ErrConfirmationRequired: {Code: "CONFIRMATION_REQUIRED", Message: "confirmation phrase does not match"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку.
func ToHTTPError(err error) (HTTPError, bool) {
	for domainErr, httpErr := range ErrorMapping {
		if errors.Is(err, domainErr) {
			return httpErr, true
		}
	}
	return HTTPError{}, false
}
