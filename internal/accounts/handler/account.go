package handler

import (
	"encoding/json"
	"net/http"

	"dinebook/internal/accounts/service"
	"dinebook/pkg/auth"
	apperrors "dinebook/pkg/errors"
	httputil "dinebook/pkg/http"
	"dinebook/pkg/logger"
	"dinebook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AccountHandler struct {
	service service.AccountService
	guard   *auth.Guard
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, guard *auth.Guard, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type signupResponse struct {
	httputil.Envelope
	UserID string `json:"user_id"`
}

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Signup", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.Signup(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, signupResponse{
		Envelope: httputil.OK("Account successfully created"),
		UserID:   user.ID,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Signup", "error", err)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	httputil.Envelope
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Envelope:    httputil.OK("Login successful"),
		UserID:      user.ID,
		AccessToken: token,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Login", "error", err)
	}
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type createUserResponse struct {
	httputil.Envelope
	UserID string `json:"user_id"`
}

func (h *AccountHandler) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "CreateUser", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		h.writeError(w, "CreateUser", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, createUserResponse{
		Envelope: httputil.OK("User created"),
		UserID:   user.ID,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "CreateUser", "error", err)
	}
}

type listUsersResponse struct {
	httputil.Envelope
	Users []*model.User `json:"users"`
}

func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, listUsersResponse{
		Envelope: httputil.OK("Users retrieved"),
		Users:    users,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListUsers", "error", err)
	}
}

func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("id")

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.writeError(w, "DeleteUser", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, httputil.OK("User deleted")); err != nil {
		h.log.Error("failed to write JSON response", "handler", "DeleteUser", "error", err)
	}
}

func (h *AccountHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/signup", h.Signup)
	router.POST("/api/login", h.Login)

	router.POST("/admin/create_user", h.guard.RequireAPIKey(h.CreateUser))
	router.GET("/admin/get_users", h.guard.RequireAPIKey(h.ListUsers))
	router.DELETE("/admin/delete_user/:id", h.guard.RequireAPIKey(h.DeleteUser))
}

func (h *AccountHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
