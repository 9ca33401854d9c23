package controllers

import (
	"errors"
	"net/http"

	"github.com/andresfontal/voltio-backend/api/middleware"
	"github.com/andresfontal/voltio-backend/api/responses"
	"github.com/andresfontal/voltio-backend/internal/session"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
)

// SessionCurrent returns the current-user snapshot for the caller's session.
func SessionCurrent(holder *session.Holder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if holder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session holder unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		current, err := holder.GetCurrent(r.Context(), accessID)
		if err != nil {
			if errors.Is(err, session.ErrNoCurrentUser) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current user"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": current})
	}
}
