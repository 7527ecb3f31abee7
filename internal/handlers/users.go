package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/handlers/render"
	"github.com/AR-Project/notesapp/internal/logger"
)

func handleRegisterUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Fullname string `json:"fullname" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		ID        uuid.UUID `json:"id"`
		Username  string    `json:"username"`
		Fullname  string    `json:"fullname"`
		CreatedAt time.Time `json:"createdAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.Register(r.Context(), data.Username, data.Fullname, data.Password)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				ID:        user.ID,
				Username:  user.Username,
				Fullname:  user.Fullname,
				CreatedAt: user.CreatedAt,
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Username already taken", http.StatusConflict)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGetUser(userService userService, l logger.Logger) http.Handler {
	type response struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Fullname string    `json:"fullname"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "User not found", http.StatusNotFound)
			return
		}

		user, err := userService.GetUser(r.Context(), userID)

		switch {
		case err == nil:
			render.JSON(w, response{ID: user.ID, Username: user.Username, Fullname: user.Fullname})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
