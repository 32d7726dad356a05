package service

import (
	"regexp"
	"strings"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/validation"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9_.-]*[a-z0-9])?$`)

// NormalizeUsername lowercases and trims a username the way it is stored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type signupFields struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	FullName string `json:"fullname" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginFields struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func validateSignup(input SignupInput) error {
	if err := validation.Struct(signupFields{
		Username: input.Username,
		FullName: input.FullName,
		Password: input.Password,
	}); err != nil {
		return err
	}
	if !usernamePattern.MatchString(input.Username) {
		return commonerrors.ErrValidation.WithDetails(map[string]any{
			"username": "may contain only letters, digits, '.', '_' and '-'",
		})
	}
	return nil
}

func validateLogin(input LoginInput) error {
	return validation.Struct(loginFields{Username: input.Username, Password: input.Password})
}
