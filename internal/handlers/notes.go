package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/handlers/render"
	"github.com/AR-Project/notesapp/internal/handlers/userctx"
	"github.com/AR-Project/notesapp/internal/logger"
	"github.com/AR-Project/notesapp/internal/repository"
)

type noteRequest struct {
	Title string   `json:"title" validate:"required,max=200"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// noteIDFromPath parses the note id path segment. Unparsable ids can not name
// an existing note, so they render as not found
func noteIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	noteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Note not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return noteID, true
}

func handleCreateNote(notesService notesService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[noteRequest](w, r)
		if err != nil {
			return
		}

		note, err := notesService.CreateNote(r.Context(), userID, repository.NoteParams{
			Title: data.Title,
			Body:  data.Body,
			Tags:  data.Tags,
		})

		switch err {
		case nil:
			render.JSONWithStatus(w, note, http.StatusCreated)
		default:
			l.Error("Failed to create note", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListNotes(notesService notesService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		notes, err := notesService.ListNotes(r.Context(), userID)

		switch err {
		case nil:
			render.JSON(w, notes)
		default:
			l.Error("Failed to list notes", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGetNote(notesService notesService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		noteID, ok := noteIDFromPath(w, r)
		if !ok {
			return
		}

		note, err := notesService.GetNote(r.Context(), noteID, userID)

		switch {
		case err == nil:
			render.JSON(w, note)
		case errors.Is(err, apperrors.ErrNoteNotFound):
			render.ServiceError(w, "Note not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "You have no access to this note", http.StatusForbidden)
		default:
			l.Error("Failed to get note", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateNote(notesService notesService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		noteID, ok := noteIDFromPath(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[noteRequest](w, r)
		if err != nil {
			return
		}

		note, err := notesService.UpdateNote(r.Context(), noteID, userID, repository.NoteParams{
			Title: data.Title,
			Body:  data.Body,
			Tags:  data.Tags,
		})

		switch {
		case err == nil:
			render.JSON(w, note)
		case errors.Is(err, apperrors.ErrNoteNotFound):
			render.ServiceError(w, "Note not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "You have no access to this note", http.StatusForbidden)
		default:
			l.Error("Failed to update note", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteNote(notesService notesService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		noteID, ok := noteIDFromPath(w, r)
		if !ok {
			return
		}

		err := notesService.DeleteNote(r.Context(), noteID, userID)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Note deleted"})
		case errors.Is(err, apperrors.ErrNoteNotFound):
			render.ServiceError(w, "Note not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Only the owner may delete a note", http.StatusForbidden)
		default:
			l.Error("Failed to delete note", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
