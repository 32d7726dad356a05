package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/tasktrack/internal/auth/service"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tasktrack/internal/common/http"
	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	userdomain "github.com/AlibekovAA/tasktrack/internal/user/domain"
)

type CredentialService interface {
	Signup(ctx context.Context, input service.SignupInput) (service.Session, error)
	Login(ctx context.Context, input service.LoginInput) (service.Session, error)
	GetProfile(ctx context.Context, username string) (userdomain.Profile, error)
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullname" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}

type sessionResponse struct {
	profileResponse
	Token string `json:"token"`
}

type Handler struct {
	auth           CredentialService
	errors         *commonhttp.ErrorHandler
	requestTimeout time.Duration
	log            *logger.Logger
}

func NewHandler(auth CredentialService, requestTimeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		auth:           auth,
		errors:         commonhttp.NewErrorHandler(log),
		requestTimeout: requestTimeout,
		log:            log,
	}
}

// Routes registers the auth endpoints on r. throttle guards signup and login;
// requireAuth guards the profile endpoint.
func (h *Handler) Routes(r chi.Router, throttle, requireAuth func(http.Handler) http.Handler) {
	r.With(throttle).Post("/signup", h.signup)
	r.With(throttle).Post("/login", h.login)
	r.With(requireAuth).Get("/info", h.info)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !commonhttp.DecodeAndValidate(w, r, h.errors, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	session, err := h.auth.Signup(ctx, service.SignupInput{
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !commonhttp.DecodeAndValidate(w, r, h.errors, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	session, err := h.auth.Login(ctx, service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, hideLoginFailure(err))
		return
	}

	commonhttp.WriteData(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	profile, err := h.auth.GetProfile(ctx, claims.Username)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, toProfileResponse(profile))
}

// hideLoginFailure collapses unknown-user and wrong-password into one answer
// so responses do not reveal which usernames exist.
func hideLoginFailure(err error) error {
	if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
		return service.ErrInvalidCredentials
	}
	return err
}

func toProfileResponse(p userdomain.Profile) profileResponse {
	return profileResponse{
		ID:       string(p.ID),
		Username: p.Username,
		FullName: p.FullName,
	}
}

func toSessionResponse(s service.Session) sessionResponse {
	return sessionResponse{
		profileResponse: toProfileResponse(s.Profile),
		Token:           s.Token,
	}
}
