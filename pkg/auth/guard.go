package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	apperrors "dinebook/pkg/errors"
	httputil "dinebook/pkg/http"
	"dinebook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// Guard wraps httprouter handles with session and admin-key checks. The admin
// API key is an explicit constructor argument; nothing here reads ambient
// global state.
type Guard struct {
	sealer      *Sealer
	adminAPIKey string
	log         *logger.Logger
}

func NewGuard(sealer *Sealer, adminAPIKey string, log *logger.Logger) *Guard {
	return &Guard{
		sealer:      sealer,
		adminAPIKey: adminAPIKey,
		log:         log,
	}
}

// RequireSession admits requests bearing a valid access token in the
// Authorization header ("Bearer <token>") and stores the caller identity in
// the request context.
func (g *Guard) RequireSession(next httprouter.Handle) httprouter.Handle {
	return g.requireCapability(Standard, next)
}

// RequirePrivileged additionally demands the privileged capability.
func (g *Guard) RequirePrivileged(next httprouter.Handle) httprouter.Handle {
	return g.requireCapability(Privileged, next)
}

func (g *Guard) requireCapability(c Capability, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, err := g.authenticate(r)
		if err != nil {
			g.writeError(w, "requireCapability", err)
			return
		}

		if !identity.Can(c) {
			g.writeError(w, "requireCapability", apperrors.Forbidden("Admin access required"))
			return
		}

		next(w, r.WithContext(WithIdentity(r.Context(), identity)), ps)
	}
}

// RequireAPIKey admits requests carrying the configured admin API key in the
// x-api-key header. Comparison is constant time.
func (g *Guard) RequireAPIKey(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		key := r.Header.Get("x-api-key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(g.adminAPIKey)) != 1 {
			g.writeError(w, "RequireAPIKey", apperrors.Unauthorized("Invalid API key"))
			return
		}
		next(w, r, ps)
	}
}

func (g *Guard) authenticate(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return Identity{}, apperrors.Unauthorized("Missing access token")
	}

	identity, err := g.sealer.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return Identity{}, apperrors.Unauthorized("Access token has expired")
		}
		return Identity{}, apperrors.Unauthorized("Invalid access token")
	}
	return identity, nil
}

func (g *Guard) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		g.log.Error("failed to write error response", "guard", op, "error", writeErr)
	}
}
