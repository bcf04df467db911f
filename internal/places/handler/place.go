package handler

import (
	"encoding/json"
	"net/http"

	"dinebook/internal/places/service"
	"dinebook/pkg/auth"
	apperrors "dinebook/pkg/errors"
	httputil "dinebook/pkg/http"
	"dinebook/pkg/logger"
	"dinebook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PlaceHandler struct {
	service service.PlaceService
	guard   *auth.Guard
	log     *logger.Logger
}

func NewPlaceHandler(service service.PlaceService, guard *auth.Guard, log *logger.Logger) *PlaceHandler {
	return &PlaceHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type createPlaceRequest struct {
	Name             string                 `json:"name"`
	Address          string                 `json:"address"`
	PhoneNo          string                 `json:"phone_no"`
	Website          string                 `json:"website"`
	OperationalHours model.OperationalHours `json:"operational_hours"`
}

type createPlaceResponse struct {
	httputil.Envelope
	PlaceID string `json:"place_id"`
}

func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createPlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	place := &model.DiningPlace{
		Name:             req.Name,
		Address:          req.Address,
		PhoneNo:          req.PhoneNo,
		Website:          req.Website,
		OperationalHours: req.OperationalHours,
		BookedSlots:      []model.Slot{},
	}

	if err := h.service.Register(r.Context(), place); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, createPlaceResponse{
		Envelope: httputil.OK("Dining place added successfully"),
		PlaceID:  place.ID,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

type searchPlacesResponse struct {
	httputil.Envelope
	Results []*model.DiningPlace `json:"results"`
}

func (h *PlaceHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("name")

	places, err := h.service.SearchByName(r.Context(), query)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	if places == nil {
		places = []*model.DiningPlace{}
	}

	if err := httputil.WriteJSON(w, http.StatusOK, searchPlacesResponse{
		Envelope: httputil.OK("Search completed"),
		Results:  places,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Search", "error", err)
	}
}

func (h *PlaceHandler) RegisterRoutes(router *httprouter.Router) {
	// Registration requires both an admin session and the service API key,
	// search any valid session.
	router.POST("/api/dining-place/create", h.guard.RequireAPIKey(h.guard.RequirePrivileged(h.Create)))
	router.GET("/api/dining-place", h.guard.RequireSession(h.Search))
}

func (h *PlaceHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
