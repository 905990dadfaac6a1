package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/cachestore"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/dto"
	"github.com/guttosm/vitaltrack-proxy/internal/i18n"
	"github.com/guttosm/vitaltrack-proxy/internal/notify"
	"github.com/guttosm/vitaltrack-proxy/internal/worker"
)

const (
	defaultMaxBodyBytes = 10 << 20
	maxPushPayloadBytes = 4 << 10
)

// Handler exposes the worker's events over HTTP: the /sw control API and
// the fetch interception for everything else.
type Handler struct {
	worker        *worker.Worker
	notifications *notify.Center
	clients       *notify.Clients
	storage       cachestore.Storage
	maxBody       int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxBodyBytes bounds intercepted request bodies. Larger ones get a 413.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(w *worker.Worker, notifications *notify.Center, clients *notify.Clients, storage cachestore.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		worker:        w,
		notifications: notifications,
		clients:       clients,
		storage:       storage,
		maxBody:       defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) lifecycle(deleted []string, messageKey string, c *gin.Context) dto.LifecycleResponse {
	return dto.LifecycleResponse{
		State:   h.worker.State().String(),
		Version: h.worker.Version(),
		Deleted: deleted,
		Message: i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c)),
	}
}

// readBody reads the request body, failing with *http.MaxBytesError once it
// passes limit.
func readBody(c *gin.Context, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
}

// writeBodyError answers a request whose body could not be read.
func writeBodyError(b *ResponseBuilder, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.ErrorCode(http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, i18n.ErrKeyPayloadTooLarge, err)
		return
	}
	b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

// writeDispatchError maps worker and notification errors onto HTTP errors.
func writeDispatchError(b *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, worker.ErrInstallFailed):
		b.ErrorCode(http.StatusBadGateway, dto.ErrCodeInstallFailed, i18n.ErrKeyInstallFailed, err)
	case errors.Is(err, worker.ErrNotInstalled):
		b.Error(http.StatusConflict, i18n.ErrKeyNotInstalled, err)
	case errors.Is(err, notify.ErrNotFound):
		b.Error(http.StatusNotFound, i18n.ErrKeyNotificationNotFound, err)
	default:
		b.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// Install handles POST /sw/install.
//
// @Summary      Install the worker
// @Description  Precaches every manifest URL into the current cache, all or nothing, then activates. Installing an activated worker is a no-op.
// @Tags         Lifecycle
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.LifecycleResponse}
// @Failure      502 {object} dto.ErrorResponse "A manifest resource could not be fetched"
// @Router       /sw/install [post]
func (h *Handler) Install(c *gin.Context) {
	b := NewResponseBuilder(c)
	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{Kind: worker.EventInstall})
	if err != nil {
		writeDispatchError(b, err)
		return
	}
	key := i18n.SuccessKeyInstalled
	if h.worker.State() == worker.StateActivated {
		key = i18n.SuccessKeyActivated
	}
	b.SuccessOK(h.lifecycle(res.Deleted, key, c))
}

// Activate handles POST /sw/activate.
//
// @Summary      Activate the worker
// @Description  Deletes every cache except the current version and claims all open clients.
// @Tags         Lifecycle
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.LifecycleResponse}
// @Failure      409 {object} dto.ErrorResponse "Install has not succeeded"
// @Router       /sw/activate [post]
func (h *Handler) Activate(c *gin.Context) {
	b := NewResponseBuilder(c)
	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{Kind: worker.EventActivate})
	if err != nil {
		writeDispatchError(b, err)
		return
	}
	b.SuccessOK(h.lifecycle(res.Deleted, i18n.SuccessKeyActivated, c))
}

// Message handles POST /sw/message.
//
// @Summary      Post a control message
// @Description  GET_VERSION replies with the cache version. SKIP_WAITING activates a waiting worker. Other types are ignored.
// @Tags         Lifecycle
// @Accept       json
// @Produce      json
// @Param        request body dto.MessageRequest true "Control message"
// @Success      200 {object} dto.SuccessResponse{data=dto.VersionResponse} "GET_VERSION reply"
// @Success      202 {object} dto.SuccessResponse{data=dto.LifecycleResponse} "Message accepted"
// @Failure      400 {object} dto.ErrorResponse
// @Router       /sw/message [post]
func (h *Handler) Message(c *gin.Context) {
	req, ok := BindAndValidate[dto.MessageRequest](c, i18n.ErrKeyValidationMessageType)
	if !ok {
		return
	}
	b := NewResponseBuilder(c)

	var reply *worker.VersionReply
	port := worker.PortFunc(func(msg any) error {
		if v, ok := msg.(worker.VersionReply); ok {
			reply = &v
		}
		return nil
	})

	_, err := h.worker.Dispatch(c.Request.Context(), worker.Event{
		Kind:    worker.EventMessage,
		Message: worker.Message{Type: req.Type},
		Reply:   port,
	})
	if err != nil {
		writeDispatchError(b, err)
		return
	}
	if reply != nil {
		b.SuccessOK(dto.VersionResponse{Version: reply.Version})
		return
	}
	b.SuccessAccepted(h.lifecycle(nil, i18n.SuccessKeyMessageAccepted, c))
}

// Version handles GET /sw/version.
//
// @Summary      Current cache version
// @Tags         Lifecycle
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.VersionResponse}
// @Router       /sw/version [get]
func (h *Handler) Version(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(dto.VersionResponse{Version: h.worker.Version()})
}

// Push handles POST /sw/push.
//
// @Summary      Deliver a push message
// @Description  Shows the health reminder. The raw request body is the notification text; an empty body uses the default reminder. Redeliveries with the same Idempotency-Key are answered from cache.
// @Tags         Notifications
// @Accept       plain
// @Produce      json
// @Param        Idempotency-Key header string false "Push delivery id"
// @Param        payload body string false "Notification body"
// @Success      201 {object} dto.SuccessResponse{data=dto.NotificationResponse}
// @Failure      413 {object} dto.ErrorResponse "Payload over 4 KiB"
// @Router       /sw/push [post]
func (h *Handler) Push(c *gin.Context) {
	b := NewResponseBuilder(c)
	payload, err := readBody(c, maxPushPayloadBytes)
	if err != nil {
		writeBodyError(b, err)
		return
	}

	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{Kind: worker.EventPush, Payload: payload})
	if err != nil {
		writeDispatchError(b, err)
		return
	}
	b.SuccessCreated(dto.NotificationResponse{ID: res.NotificationID, Shown: true})
}

// Sync handles POST /sw/sync.
//
// @Summary      Background sync
// @Description  Acknowledges the health-data-backup tag. Other tags are not handled.
// @Tags         Sync
// @Accept       json
// @Produce      json
// @Param        request body dto.TagRequest true "Sync tag"
// @Success      200 {object} dto.SuccessResponse{data=dto.SyncResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /sw/sync [post]
func (h *Handler) Sync(c *gin.Context) {
	req, ok := BindAndValidate[dto.TagRequest](c, i18n.ErrKeyValidationTag)
	if !ok {
		return
	}
	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{Kind: worker.EventSync, Tag: req.Tag})
	if err != nil {
		writeDispatchError(NewResponseBuilder(c), err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.SyncResponse{Tag: req.Tag, Handled: res.Handled})
}

// PeriodicSync handles POST /sw/periodicsync.
//
// @Summary      Periodic background sync
// @Description  Shows the daily reminder for the daily-health-reminder tag. Other tags show nothing.
// @Tags         Sync
// @Accept       json
// @Produce      json
// @Param        request body dto.TagRequest true "Periodic sync tag"
// @Success      200 {object} dto.SuccessResponse{data=dto.NotificationResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /sw/periodicsync [post]
func (h *Handler) PeriodicSync(c *gin.Context) {
	req, ok := BindAndValidate[dto.TagRequest](c, i18n.ErrKeyValidationTag)
	if !ok {
		return
	}
	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{Kind: worker.EventPeriodicSync, Tag: req.Tag})
	if err != nil {
		writeDispatchError(NewResponseBuilder(c), err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.NotificationResponse{ID: res.NotificationID, Shown: res.NotificationID != ""})
}

// ListNotifications handles GET /sw/notifications.
//
// @Summary      Displayed notifications
// @Tags         Notifications
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]model.Notification}
// @Router       /sw/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.notifications.List())
}

// NotificationClick handles POST /sw/notifications/:id/click.
//
// @Summary      Click a notification
// @Description  Closes the notification. The open action also focuses or opens a window at the notification URL.
// @Tags         Notifications
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification id"
// @Param        request body dto.ClickRequest false "Chosen action"
// @Success      200 {object} dto.SuccessResponse{data=model.Client} "Focused or opened client, null when none"
// @Failure      404 {object} dto.ErrorResponse
// @Router       /sw/notifications/{id}/click [post]
func (h *Handler) NotificationClick(c *gin.Context) {
	var req dto.ClickRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
			return
		}
	}

	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{
		Kind:           worker.EventNotificationClick,
		NotificationID: c.Param("id"),
		Action:         req.Action,
	})
	if err != nil {
		writeDispatchError(NewResponseBuilder(c), err)
		return
	}
	NewResponseBuilder(c).SuccessOK(res.Client)
}

// ListClients handles GET /sw/clients.
//
// @Summary      Window clients
// @Tags         Clients
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]model.Client}
// @Router       /sw/clients [get]
func (h *Handler) ListClients(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.clients.List())
}

// RegisterClient handles POST /sw/clients.
//
// @Summary      Register a window client
// @Description  Records a page loaded by the browser. Pages registered after activation are controlled.
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterClientRequest true "Page URL"
// @Success      201 {object} dto.SuccessResponse{data=model.Client}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /sw/clients [post]
func (h *Handler) RegisterClient(c *gin.Context) {
	req, ok := BindAndValidate[dto.RegisterClientRequest](c, i18n.ErrKeyValidationURL)
	if !ok {
		return
	}
	client := h.clients.Register(c.Request.Context(), req.URL)
	NewResponseBuilder(c).SuccessCreated(client)
}

// Caches handles GET /sw/caches.
//
// @Summary      Named caches
// @Tags         Lifecycle
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CachesResponse}
// @Router       /sw/caches [get]
func (h *Handler) Caches(c *gin.Context) {
	names, err := h.storage.Keys(c.Request.Context())
	if err != nil {
		NewResponseBuilder(c).Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	NewResponseBuilder(c).SuccessOK(dto.CachesResponse{Current: h.worker.Version(), Caches: names})
}
