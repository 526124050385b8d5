package http

import (
	"net/http"
	"strconv"

	"carteira/internal/domain/notification"
)

type NotificationHandler struct {
	notificationService *notification.Service
}

func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// --- Request/Response types ---

type RegisterDeviceRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

type UpdatePreferencesRequest struct {
	InvoicesEnabled  *bool `json:"invoices_enabled"`
	ContractsEnabled *bool `json:"contracts_enabled"`
	GeneralEnabled   *bool `json:"general_enabled"`
}

type PreferencesResponse struct {
	Success bool                     `json:"success"`
	Data    *PreferencesDataResponse `json:"data"`
}

type PreferencesDataResponse struct {
	InvoicesEnabled  bool `json:"invoices_enabled"`
	ContractsEnabled bool `json:"contracts_enabled"`
	GeneralEnabled   bool `json:"general_enabled"`
}

type NotificationResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	OpenedAt  *string           `json:"opened_at"`
	CreatedAt string            `json:"created_at"`
	Data      map[string]string `json:"data"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Pagination    PaginationResponse     `json:"pagination"`
}

type PaginationResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

type OpenNotificationRequest struct {
	NotificationID string `json:"notification_id"`
}

// --- Handlers ---

// HandleNotifications handles GET /api/notifications/ (list)
func (h *NotificationHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	notifications, total, err := h.notificationService.ListNotifications(r.Context(), userID, page, perPage)
	if err != nil {
		writeDomainError(w, r, err, "Failed to list notifications")
		return
	}

	items := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationResponse(n))
	}

	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}

	writeJSON(w, http.StatusOK, NotificationListResponse{
		Notifications: items,
		Pagination: PaginationResponse{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   pages,
		},
	})
}

// HandleNotificationByID handles PUT /api/notifications/{id} (mark as opened)
func (h *NotificationHandler) HandleNotificationByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notificationID := r.PathValue("id")
	if notificationID == "" {
		writeError(w, http.StatusBadRequest, "Notification ID is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if err := h.notificationService.MarkNotificationOpened(r.Context(), notificationID, userID); err != nil {
			writeDomainError(w, r, err, "Failed to update notification")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandlePreferences handles GET/POST /api/notifications/preferences/
func (h *NotificationHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		prefs, err := h.notificationService.GetPreferences(r.Context(), userID)
		if err != nil {
			writeDomainError(w, r, err, "Failed to get preferences")
			return
		}
		writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))

	case http.MethodPost:
		var req UpdatePreferencesRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		prefs, err := h.notificationService.UpdatePreferences(r.Context(), userID, notification.UpdatePreferenceParams{
			InvoicesEnabled:  req.InvoicesEnabled,
			ContractsEnabled: req.ContractsEnabled,
			GeneralEnabled:   req.GeneralEnabled,
		})
		if err != nil {
			writeDomainError(w, r, err, "Failed to update preferences")
			return
		}
		writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleRegisterDevice handles POST /api/notifications/register-device/
func (h *NotificationHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req RegisterDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.notificationService.RegisterDevice(r.Context(), notification.CreateDeviceTokenParams{
		UserID:     userID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
	if err != nil {
		writeDomainError(w, r, err, "Failed to register device")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token.Token,
	})
}

// HandleOpen handles POST /api/notifications/open/
func (h *NotificationHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req OpenNotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.NotificationID == "" {
		writeError(w, http.StatusBadRequest, "notification_id is required")
		return
	}

	if err := h.notificationService.MarkNotificationOpened(r.Context(), req.NotificationID, userID); err != nil {
		writeDomainError(w, r, err, "Failed to mark notification as opened")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Helpers ---

func toPreferencesResponse(prefs *notification.Preference) PreferencesResponse {
	return PreferencesResponse{
		Success: true,
		Data: &PreferencesDataResponse{
			InvoicesEnabled:  prefs.InvoicesEnabled,
			ContractsEnabled: prefs.ContractsEnabled,
			GeneralEnabled:   prefs.GeneralEnabled,
		},
	}
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	var openedAt *string
	if n.OpenedAt != nil {
		formatted := formatTimestamp(*n.OpenedAt)
		openedAt = &formatted
	}

	data := n.Data
	if data == nil {
		data = make(map[string]string)
	}

	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		OpenedAt:  openedAt,
		CreatedAt: formatTimestamp(n.CreatedAt),
		Data:      data,
	}
}
