package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/api/middleware"
	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// actorFromRequest rebuilds the authenticated actor from the claims the auth
// middleware seeded into the request context.
func actorFromRequest(r *http.Request) (authz.Actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return authz.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return authz.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	role, err := enums.ParseRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return authz.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}

	actor := authz.Actor{UserID: uid, Role: role}
	if hostelID := middleware.HostelIDFromContext(r.Context()); hostelID != "" {
		hid, err := uuid.Parse(hostelID)
		if err != nil {
			return authz.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid hostel id")
		}
		actor.HostelID = &hid
	}
	return actor, nil
}

// pathID parses a uuid path parameter out of the chi route context.
func pathID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing "+param)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
