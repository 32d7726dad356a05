package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AlibekovAA/tasktrack/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/tasktrack/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	userdomain "github.com/AlibekovAA/tasktrack/internal/user/domain"
	userrepo "github.com/AlibekovAA/tasktrack/internal/user/repository"
)

type TokenIssuer interface {
	Issue(claims jwtverify.Claims) (string, error)
}

type SignupInput struct {
	Username string
	FullName string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// Session is a profile together with a ready-to-use bearer token.
type Session struct {
	Profile userdomain.Profile
	Token   string
}

type CredentialService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      TokenIssuer
	clock       clock.Clock
	log         *logger.Logger
}

type CredentialServiceDeps struct {
	Repo        userrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Tokens      TokenIssuer
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewCredentialService(deps CredentialServiceDeps) *CredentialService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &CredentialService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		tokens:      deps.Tokens,
		clock:       clk,
		log:         deps.Log,
	}
}

// Signup creates an identity and logs it in, returning the same shape as Login.
func (s *CredentialService) Signup(ctx context.Context, input SignupInput) (Session, error) {
	input.Username = NormalizeUsername(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)

	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	if err := validateSignup(input); err != nil {
		recordSignup("invalid")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_validation_failed",
		}).Warnf("signup validation failed: %v", err)
		return Session{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		recordSignup("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return Session{}, ErrCreationFailed.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		recordSignup("error")
		return Session{}, ErrCreationFailed.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			recordSignup("username_taken")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signup_username_taken",
			}).Warn("signup failed: username taken")
			return Session{}, ErrUsernameTaken
		}
		recordSignup("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return Session{}, storeError(err, ErrCreationFailed)
	}

	recordSignup("success")
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signup_success",
	}).Info("signup success")

	return s.Login(ctx, LoginInput{Username: input.Username, Password: input.Password})
}

func (s *CredentialService) Login(ctx context.Context, input LoginInput) (Session, error) {
	input.Username = NormalizeUsername(input.Username)

	if err := validateLogin(input); err != nil {
		recordLogin("invalid")
		return Session{}, err
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			recordLogin("user_not_found")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			return Session{}, ErrUserNotFound
		}
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return Session{}, storeError(err, commonerrors.ErrDatabaseError)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_corrupt_credential",
		}).Errorf("login failed: %v", err)
		return Session{}, ErrCorruptCredential.WithCause(err)
	}
	if !ok {
		recordLogin("invalid_password")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		return Session{}, ErrInvalidPassword
	}

	token, err := s.tokens.Issue(jwtverify.Claims{UserID: string(user.ID), Username: user.Username})
	if err != nil {
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return Session{}, commonerrors.ErrInternalError.WithCause(err)
	}

	recordLogin("success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return Session{Profile: user.Profile(), Token: token}, nil
}

func (s *CredentialService) GetProfile(ctx context.Context, username string) (userdomain.Profile, error) {
	user, err := s.repo.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.Profile{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "get_profile_failed",
		}).Errorf("get profile failed: %v", err)
		return userdomain.Profile{}, storeError(err, commonerrors.ErrDatabaseError)
	}
	return user.Profile(), nil
}

// storeError keeps an open circuit visible as 503 and hides every other store
// failure behind fallback.
func storeError(err error, fallback commonerrors.DomainError) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return commonerrors.ErrCircuitOpen
	}
	return fallback.WithCause(err)
}
