package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/dto"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/i18n"
	"github.com/guttosm/vitaltrack-proxy/internal/middleware"
	"github.com/guttosm/vitaltrack-proxy/internal/network"
	"github.com/guttosm/vitaltrack-proxy/internal/worker"
)

const (
	// OfflineHeader marks responses produced by the proxy itself.
	OfflineHeader = "X-Offline-Proxy"
	// OfflineNetworkError is the OfflineHeader value when neither the
	// network nor the cache could answer.
	OfflineNetworkError = "network-error"
)

// Proxy intercepts every request that is not part of the control API and
// answers it the way the worker's fetch handler would.
func (h *Handler) Proxy(c *gin.Context) {
	b := NewResponseBuilder(c)

	req, err := h.interceptedRequest(c)
	if err != nil {
		writeBodyError(b, err)
		return
	}

	res, err := h.worker.Dispatch(c.Request.Context(), worker.Event{Kind: worker.EventFetch, Request: req})
	middleware.SetFetchSource(c, string(res.Source))
	if err == nil && res.Response == nil {
		err = worker.ErrNoResponse
	}
	if errors.Is(err, network.ErrResponseTooLarge) {
		b.ErrorCode(http.StatusBadGateway, dto.ErrCodeUpstreamTooLarge, i18n.ErrKeyUpstreamTooLarge, err)
		return
	}
	if err != nil {
		c.Header(OfflineHeader, OfflineNetworkError)
		b.ErrorCode(http.StatusGatewayTimeout, dto.ErrCodeOffline, i18n.ErrKeyOffline, err)
		return
	}

	writeResponse(c, res.Response)
}

func (h *Handler) interceptedRequest(c *gin.Context) (*model.Request, error) {
	req := model.NewRequest(c.Request.Method, c.Request.URL.RequestURI())
	req.Header = c.Request.Header.Clone()
	network.StripHopHeaders(req.Header)
	req.Destination = c.GetHeader("Sec-Fetch-Dest")
	req.Mode = c.GetHeader("Sec-Fetch-Mode")
	if req.Destination == "" && looksLikeNavigation(c.Request) {
		req.Destination = model.DestinationDocument
	}

	if c.Request.Body != nil {
		body, err := readBody(c, h.maxBody)
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	return req, nil
}

// looksLikeNavigation classifies requests from clients that do not send
// Fetch Metadata headers.
func looksLikeNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == model.ModeNavigate {
		return true
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeResponse(c *gin.Context, resp *model.Response) {
	header := c.Writer.Header()
	for k, vv := range resp.Header {
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		for _, v := range vv {
			header.Add(k, v)
		}
	}
	network.StripHopHeaders(header)

	c.Status(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = c.Writer.Write(resp.Body)
	}
}
