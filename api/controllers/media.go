package controllers

import (
	"net/http"

	"github.com/hosteldesk/hosteldesk-backend/api/responses"
	"github.com/hosteldesk/hosteldesk-backend/internal/media"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
)

const maxUploadMemory = 4 << 20

// MediaUpload accepts a multipart photo upload and returns the stored URL.
// The returned URL is what clients put in a complaint's photo_url.
func MediaUpload(store media.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media store unavailable"))
			return
		}

		if _, err := actorFromRequest(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "photo file is required"))
			return
		}
		defer file.Close()

		url, err := store.UploadPhoto(r.Context(), file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"url": url})
	}
}
