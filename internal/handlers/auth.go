package handlers

import (
	"errors"
	"net/http"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/handlers/render"
	"github.com/AR-Project/notesapp/internal/logger"
)

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Login(r.Context(), data.Username, data.Password)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				AccessToken:  pair.Access.Value,
				RefreshToken: pair.Refresh.Value,
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrBadCredentials):
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleRefresh(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	type response struct {
		AccessToken string `json:"accessToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		access, err := authService.Refresh(r.Context(), data.RefreshToken)

		switch {
		case err == nil:
			render.JSON(w, response{AccessToken: access.Value})
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound),
			errors.Is(err, apperrors.ErrTokenInvalid):
			render.ServiceError(w, "Refresh token is not valid", http.StatusBadRequest)
		default:
			l.Error("Failed to refresh access token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogout(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = authService.Logout(r.Context(), data.RefreshToken)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Refresh token revoked"})
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
			render.ServiceError(w, "Refresh token is not valid", http.StatusBadRequest)
		default:
			l.Error("Failed to logout user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
