package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
)

// ErrNotFoundOrForbidden answers both "no such task" and "not your task".
var ErrNotFoundOrForbidden = commonerrors.NewDomainError(
	"NOT_FOUND_OR_FORBIDDEN",
	commonerrors.CategoryOwnership,
	http.StatusNotFound,
	"task not found",
)
