package models

// Error kinds map 1:1 to HTTP statuses at the handler boundary.
type ErrorKind int

const (
	ErrValidation ErrorKind = iota // 400
	ErrPermission                  // 403
	ErrNotFound                    // 404
	ErrConflict                    // 409
	ErrInvariant                   // 400, would break a vault invariant
)

// Machine-readable codes clients branch on.
const (
	CodeInvalidInvite       = "INVALID_INVITE"
	CodeInviteEmailMismatch = "INVITE_EMAIL_MISMATCH"
	CodeInviteExists        = "INVITE_EXISTS"
	CodeAdminRoleNotAllowed = "ADMIN_ROLE_NOT_ALLOWED"
	CodeAccountExists       = "ACCOUNT_EXISTS"
	CodeAlreadyMember       = "ALREADY_MEMBER"
	CodeNotMember           = "NOT_A_MEMBER"
	CodeLastAdmin           = "LAST_ADMIN"
	CodeOwnerImmutable      = "OWNER_IMMUTABLE"
	CodeBadRole             = "BAD_ROLE"
	CodeBadPassword         = "BAD_PASSWORD"
	CodeEditWindowExpired   = "EDIT_WINDOW_EXPIRED"
)

type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidationError(code, message string) *Error {
	return &Error{Kind: ErrValidation, Code: code, Message: message}
}

func NewPermissionError(code, message string) *Error {
	return &Error{Kind: ErrPermission, Code: code, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func NewConflictError(code, message string) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: message}
}

func NewInvariantError(code, message string) *Error {
	return &Error{Kind: ErrInvariant, Code: code, Message: message}
}
