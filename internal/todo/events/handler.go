package events

import (
	"net/http"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/tasktrack/internal/common/constants"
	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tasktrack/internal/common/http"
	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
)

// Handler upgrades an authenticated request to the caller's task feed. It must
// run behind the session middleware.
type Handler struct {
	hub      *Hub
	upgrader gorillaWS.Upgrader
	log      *logger.Logger
}

func NewHandler(hub *Hub, allowedOrigins []string, log *logger.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, commonerrors.ErrUnauthorized.Code(), commonerrors.ErrUnauthorized.Message())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": claims.UserID,
			"action":  "ws_upgrade_failed",
		}).Warnf("websocket upgrade failed: %v", err)
		return
	}

	NewClient(r.Context(), h.hub, conn, claims.UserID, h.log).Start()
}

// originChecker allows requests without an Origin header, any origin when the
// list contains "*", and otherwise only listed origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
