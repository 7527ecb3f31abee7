package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrBadCredentials = errors.New("wrong username or password")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrTokenInvalid         = errors.New("token malformed or signature invalid")
	ErrTokenExpired         = errors.New("token is expired")

	ErrNoteNotFound = errors.New("note not found")
	ErrAccessDenied = errors.New("access denied")

	ErrCollaborationExists   = errors.New("collaboration already exists")
	ErrCollaborationNotFound = errors.New("collaboration not found")
)
