package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/handlers/render"
	"github.com/AR-Project/notesapp/internal/handlers/userctx"
	"github.com/AR-Project/notesapp/internal/logger"
)

type collaborationRequest struct {
	NoteID uuid.UUID `json:"noteId" validate:"required"`
	UserID uuid.UUID `json:"userId" validate:"required"`
}

func handleAddCollaboration(notesService notesService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[collaborationRequest](w, r)
		if err != nil {
			return
		}

		err = notesService.AddCollaborator(r.Context(), data.NoteID, ownerID, data.UserID)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{Message: "Collaborator added"}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrNoteNotFound):
			render.ServiceError(w, "Note not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Only the owner may manage collaborators", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrCollaborationExists):
			render.ServiceError(w, "User is already a collaborator", http.StatusBadRequest)
		default:
			l.Error("Failed to add collaborator", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleRemoveCollaboration(notesService notesService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[collaborationRequest](w, r)
		if err != nil {
			return
		}

		err = notesService.RemoveCollaborator(r.Context(), data.NoteID, ownerID, data.UserID)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Collaborator removed"})
		case errors.Is(err, apperrors.ErrNoteNotFound):
			render.ServiceError(w, "Note not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Only the owner may manage collaborators", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrCollaborationNotFound):
			render.ServiceError(w, "User is not a collaborator", http.StatusBadRequest)
		default:
			l.Error("Failed to remove collaborator", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
