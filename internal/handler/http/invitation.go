package http

import (
	"encoding/json"
	"net/http"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/handler/http/middleware"
	"github.com/evermoment/evermoment-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	// Public endpoints
	Create(w http.ResponseWriter, r *http.Request)
	GetPublic(w http.ResponseWriter, r *http.Request)
	RecordRSVP(w http.ResponseWriter, r *http.Request)

	// Host endpoints, behind middleware.HostRequired
	GetHost(w http.ResponseWriter, r *http.Request)
	ListGuests(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.Service
}

func NewInvitationHandler(invitationService invitation.Service) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

type createInvitationResponse struct {
	Success bool                      `json:"success"`
	Invite  invitation.CreateResponse `json:"invite"`
}

type publicInvitationResponse struct {
	Invite invitation.InvitationResponse `json:"invite"`
}

// Create implements InvitationHandler.
func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req invitation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.invitationService.CreateDraft(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, createInvitationResponse{
		Success: true,
		Invite:  result,
	})
}

// GetPublic implements InvitationHandler. The id comes from the path or
// from the "id" query parameter.
func (h *invitationHandlerImpl) GetPublic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		response.BadRequest(w, "Invitation id is required", nil)
		return
	}

	result, err := h.invitationService.GetPublicInvitation(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, publicInvitationResponse{Invite: result})
}

// RecordRSVP implements InvitationHandler.
func (h *invitationHandlerImpl) RecordRSVP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req invitation.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.invitationService.RecordRSVP(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetHost implements InvitationHandler.
func (h *invitationHandlerImpl) GetHost(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.InvitationIDFromContext(r.Context())
	if !ok {
		response.HandleError(w, invitation.ErrInvalidHostToken)
		return
	}

	result, err := h.invitationService.GetHostInvitation(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListGuests implements InvitationHandler.
func (h *invitationHandlerImpl) ListGuests(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.InvitationIDFromContext(r.Context())
	if !ok {
		response.HandleError(w, invitation.ErrInvalidHostToken)
		return
	}

	result, err := h.invitationService.ListGuests(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
