package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
)

var (
	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already exists",
	)

	// ErrUserNotFound and ErrInvalidPassword are kept apart for logs and
	// metrics; login responses collapse both into ErrInvalidCredentials.
	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryAuth,
		http.StatusNotFound,
		"user not found",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.CategoryAuth,
		http.StatusUnauthorized,
		"invalid password",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryAuth,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	ErrCreationFailed = commonerrors.NewDomainError(
		"CREATION_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to create user",
	)

	ErrCorruptCredential = commonerrors.NewDomainError(
		"CORRUPT_CREDENTIAL",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"stored credential is unreadable",
	)
)
