package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/api/responses"
	"github.com/hosteldesk/hosteldesk-backend/internal/complaints"
	"github.com/hosteldesk/hosteldesk-backend/internal/hostels"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
)

type hostelResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type hostelDetailResponse struct {
	Hostel     hostelResponse            `json:"hostel"`
	Complaints []complaints.ComplaintDTO `json:"complaints"`
}

// HostelList returns all hostels, ordered by name. Used by registration and
// complaint forms, so it is public.
func HostelList(svc hostels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hostels service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp := make([]hostelResponse, 0, len(rows))
		for _, h := range rows {
			resp = append(resp, hostelResponse{ID: h.ID, Name: h.Name})
		}
		responses.WriteSuccess(w, resp)
	}
}

// HostelDetail returns a hostel with its complaint history.
func HostelDetail(svc hostels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hostels service unavailable"))
			return
		}

		id, err := pathID(r, "hostelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hostel, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.Complaints(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := hostelDetailResponse{
			Hostel:     hostelResponse{ID: hostel.ID, Name: hostel.Name},
			Complaints: make([]complaints.ComplaintDTO, 0, len(rows)),
		}
		for i := range rows {
			resp.Complaints = append(resp.Complaints, *complaints.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}
