package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/andresfontal/voltio-backend/api/middleware"
	"github.com/andresfontal/voltio-backend/internal/sales"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
)

// actorFromRequest rebuilds the authenticated actor from the values the auth
// middleware seeded into the context.
func actorFromRequest(r *http.Request) (sales.ActorContext, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return sales.ActorContext{}, err
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return sales.ActorContext{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return sales.ActorContext{
		UserID: userID,
		Email:  middleware.EmailFromContext(r.Context()),
		Role:   role,
	}, nil
}

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid uuid").
			WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return userID, nil
}
