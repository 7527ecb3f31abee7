package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AR-Project/notesapp/internal/cache"
	"github.com/AR-Project/notesapp/internal/logger"
	"github.com/AR-Project/notesapp/internal/models"
	"github.com/AR-Project/notesapp/internal/repository/postgres"
	"github.com/AR-Project/notesapp/internal/service/auth"
	"github.com/AR-Project/notesapp/internal/service/auth/tokenmanager"
	"github.com/AR-Project/notesapp/internal/service/notes"
	"github.com/AR-Project/notesapp/internal/service/user"
	"github.com/AR-Project/notesapp/internal/testutil"
)

type testEnv struct {
	url         string
	userService *user.UserService
	authService *auth.AuthService
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run http server with the full router wired to production services
	withTx := func(t *testing.T, fn func(env testEnv)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			refreshRepo := &postgres.RefreshTokenRepo{DB: tx}

			tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
			require.NoError(t, err, "token manager should be created without errors")

			userService := user.NewService(nil, userRepo)

			authService, err := auth.NewService(tokenManager, userService, refreshRepo)
			require.NoError(t, err, "auth service should be created without errors")

			notesService, err := notes.NewService(
				notes.Config{},
				&postgres.NoteRepo{DB: tx},
				&postgres.CollaborationRepo{DB: tx},
				cache.NewMemory(),
			)
			require.NoError(t, err, "notes service should be created without errors")

			srv := httptest.NewServer(NewRouter(authService, userService, notesService, logger.NewNoOpLogger()))
			defer srv.Close()

			fn(testEnv{url: srv.URL, userService: userService, authService: authService})
		})
	}

	do := func(t *testing.T, method string, url string, token string, body string) (int, string) {
		t.Helper()

		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, url, reader)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		got, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		return resp.StatusCode, string(got)
	}

	// Register through the service and login through the api, return access token
	loginUser := func(t *testing.T, env testEnv, username string) (uuid.UUID, string) {
		t.Helper()

		u, err := env.userService.Register(t.Context(), username, "Test User", "StrongEnoughPassword")
		require.NoError(t, err)

		pair, err := env.authService.Login(t.Context(), username, "StrongEnoughPassword")
		require.NoError(t, err)

		return u.ID, pair.Access.Value
	}

	t.Run("users", func(t *testing.T) {
		t.Run("register ok", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				body := `{"username": "amalia", "fullname": "Amalia Surya", "password": "StrongEnoughPassword"}`

				code, got := do(t, http.MethodPost, env.url+"/users", "", body)

				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", got)
				assert.Contains(t, got, `"username":"amalia"`)
				assert.Contains(t, got, `"fullname":"Amalia Surya"`)
			})
		})

		t.Run("register duplicate conflicts", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				body := `{"username": "amalia", "fullname": "Amalia Surya", "password": "StrongEnoughPassword"}`

				code, _ := do(t, http.MethodPost, env.url+"/users", "", body)
				require.Equal(t, http.StatusCreated, code)

				code, got := do(t, http.MethodPost, env.url+"/users", "", body)
				require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", got)
			})
		})

		t.Run("register short password fails validation", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				body := `{"username": "amalia", "fullname": "Amalia Surya", "password": "short"}`

				code, got := do(t, http.MethodPost, env.url+"/users", "", body)

				require.Equal(t, http.StatusBadRequest, code)
				assert.Contains(t, got, "validation_failed")
			})
		})

		t.Run("get user", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				userID, _ := loginUser(t, env, "amalia")

				code, got := do(t, http.MethodGet, env.url+"/users/"+userID.String(), "", "")

				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", got)
				assert.JSONEq(t, fmt.Sprintf(`{
					"id": "%s",
					"username": "amalia",
					"fullname": "Test User"
				}`, userID), got)
			})
		})

		t.Run("get unknown user not found", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				code, _ := do(t, http.MethodGet, env.url+"/users/"+uuid.NewString(), "", "")

				require.Equal(t, http.StatusNotFound, code)
			})
		})
	})

	t.Run("authentications", func(t *testing.T) {
		t.Run("login issues token pair", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, err := env.userService.Register(t.Context(), "amalia", "Test User", "StrongEnoughPassword")
				require.NoError(t, err)

				body := `{"username": "amalia", "password": "StrongEnoughPassword"}`
				code, got := do(t, http.MethodPost, env.url+"/authentications", "", body)

				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", got)

				var tokens struct {
					AccessToken  string `json:"accessToken"`
					RefreshToken string `json:"refreshToken"`
				}
				require.NoError(t, json.Unmarshal([]byte(got), &tokens))
				require.NotEmpty(t, tokens.AccessToken)
				require.NotEmpty(t, tokens.RefreshToken)
			})
		})

		t.Run("login wrong password unauthorized", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, err := env.userService.Register(t.Context(), "amalia", "Test User", "StrongEnoughPassword")
				require.NoError(t, err)

				body := `{"username": "amalia", "password": "WrongPassword!"}`
				code, got := do(t, http.MethodPost, env.url+"/authentications", "", body)

				require.Equal(t, http.StatusUnauthorized, code)
				assert.JSONEq(t, `{
					"error": "service_error",
					"message": "Invalid username or password"
				}`, got)
			})
		})

		t.Run("refresh mints new access token", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, err := env.userService.Register(t.Context(), "amalia", "Test User", "StrongEnoughPassword")
				require.NoError(t, err)
				pair, err := env.authService.Login(t.Context(), "amalia", "StrongEnoughPassword")
				require.NoError(t, err)

				body := fmt.Sprintf(`{"refreshToken": "%s"}`, pair.Refresh.Value)
				code, got := do(t, http.MethodPut, env.url+"/authentications", "", body)

				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", got)
				assert.Contains(t, got, "accessToken")
			})
		})

		t.Run("refresh with unknown token fails", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				body := `{"refreshToken": "never-issued"}`
				code, _ := do(t, http.MethodPut, env.url+"/authentications", "", body)

				require.Equal(t, http.StatusBadRequest, code)
			})
		})

		t.Run("logout revokes refresh token", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, err := env.userService.Register(t.Context(), "amalia", "Test User", "StrongEnoughPassword")
				require.NoError(t, err)
				pair, err := env.authService.Login(t.Context(), "amalia", "StrongEnoughPassword")
				require.NoError(t, err)

				body := fmt.Sprintf(`{"refreshToken": "%s"}`, pair.Refresh.Value)

				code, _ := do(t, http.MethodDelete, env.url+"/authentications", "", body)
				require.Equal(t, http.StatusOK, code)

				// Revoked token must be unusable for refresh and repeated logout
				code, _ = do(t, http.MethodPut, env.url+"/authentications", "", body)
				require.Equal(t, http.StatusBadRequest, code)

				code, _ = do(t, http.MethodDelete, env.url+"/authentications", "", body)
				require.Equal(t, http.StatusBadRequest, code)
			})
		})
	})

	t.Run("notes", func(t *testing.T) {
		createNote := func(t *testing.T, env testEnv, token string) models.Note {
			t.Helper()
			body := `{"title": "groceries", "body": "milk and eggs", "tags": ["home"]}`

			code, got := do(t, http.MethodPost, env.url+"/notes", token, body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", got)

			var note models.Note
			require.NoError(t, json.Unmarshal([]byte(got), &note))
			return note
		}

		t.Run("requires auth", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				code, _ := do(t, http.MethodGet, env.url+"/notes", "", "")

				require.Equal(t, http.StatusUnauthorized, code)
			})
		})

		t.Run("create and read own note", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				userID, token := loginUser(t, env, "amalia")

				note := createNote(t, env, token)
				require.Equal(t, userID, note.Owner)

				code, got := do(t, http.MethodGet, env.url+"/notes/"+note.ID.String(), token, "")
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", got)
				assert.Contains(t, got, `"title":"groceries"`)
			})
		})

		t.Run("stranger gets forbidden", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, ownerToken := loginUser(t, env, "amalia")
				_, strangerToken := loginUser(t, env, "budi")

				note := createNote(t, env, ownerToken)

				code, got := do(t, http.MethodGet, env.url+"/notes/"+note.ID.String(), strangerToken, "")
				require.Equalf(t, http.StatusForbidden, code, "not expected code. Body: %s", got)
			})
		})

		t.Run("missing note not found", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, token := loginUser(t, env, "amalia")

				code, _ := do(t, http.MethodGet, env.url+"/notes/"+uuid.NewString(), token, "")
				require.Equal(t, http.StatusNotFound, code)

				code, _ = do(t, http.MethodGet, env.url+"/notes/not-a-uuid", token, "")
				require.Equal(t, http.StatusNotFound, code)
			})
		})

		t.Run("update and list", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, token := loginUser(t, env, "amalia")
				note := createNote(t, env, token)

				body := `{"title": "groceries v2", "body": "milk only", "tags": []}`
				code, got := do(t, http.MethodPut, env.url+"/notes/"+note.ID.String(), token, body)
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", got)

				code, got = do(t, http.MethodGet, env.url+"/notes", token, "")
				require.Equal(t, http.StatusOK, code)

				var listed []models.Note
				require.NoError(t, json.Unmarshal([]byte(got), &listed))
				require.Len(t, listed, 1)
				assert.Equal(t, "groceries v2", listed[0].Title, "listing must reflect the update")
			})
		})

		t.Run("collaborator may edit but not delete", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, ownerToken := loginUser(t, env, "amalia")
				collaboratorID, collaboratorToken := loginUser(t, env, "budi")

				note := createNote(t, env, ownerToken)

				body := fmt.Sprintf(`{"noteId": "%s", "userId": "%s"}`, note.ID, collaboratorID)
				code, got := do(t, http.MethodPost, env.url+"/collaborations", ownerToken, body)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", got)

				update := `{"title": "edited by collaborator", "body": "", "tags": []}`
				code, _ = do(t, http.MethodPut, env.url+"/notes/"+note.ID.String(), collaboratorToken, update)
				require.Equal(t, http.StatusOK, code)

				code, _ = do(t, http.MethodDelete, env.url+"/notes/"+note.ID.String(), collaboratorToken, "")
				require.Equal(t, http.StatusForbidden, code, "delete stays owner only")
			})
		})

		t.Run("owner deletes note", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, token := loginUser(t, env, "amalia")
				note := createNote(t, env, token)

				code, _ := do(t, http.MethodDelete, env.url+"/notes/"+note.ID.String(), token, "")
				require.Equal(t, http.StatusOK, code)

				code, _ = do(t, http.MethodGet, env.url+"/notes/"+note.ID.String(), token, "")
				require.Equal(t, http.StatusNotFound, code)
			})
		})
	})

	t.Run("collaborations", func(t *testing.T) {
		t.Run("only owner manages collaborators", func(t *testing.T) {
			withTx(t, func(env testEnv) {
				_, ownerToken := loginUser(t, env, "amalia")
				collaboratorID, collaboratorToken := loginUser(t, env, "budi")

				code, got := do(t, http.MethodPost, env.url+"/notes", ownerToken, `{"title": "shared"}`)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", got)
				var note models.Note
				require.NoError(t, json.Unmarshal([]byte(got), &note))

				body := fmt.Sprintf(`{"noteId": "%s", "userId": "%s"}`, note.ID, collaboratorID)

				code, _ = do(t, http.MethodPost, env.url+"/collaborations", collaboratorToken, body)
				require.Equal(t, http.StatusForbidden, code, "non owner must not grant access")

				code, _ = do(t, http.MethodPost, env.url+"/collaborations", ownerToken, body)
				require.Equal(t, http.StatusCreated, code)

				code, _ = do(t, http.MethodPost, env.url+"/collaborations", ownerToken, body)
				require.Equal(t, http.StatusBadRequest, code, "duplicate grant must fail")

				code, _ = do(t, http.MethodDelete, env.url+"/collaborations", ownerToken, body)
				require.Equal(t, http.StatusOK, code)

				code, _ = do(t, http.MethodDelete, env.url+"/collaborations", ownerToken, body)
				require.Equal(t, http.StatusBadRequest, code, "second revoke must fail")
			})
		})
	})
}
