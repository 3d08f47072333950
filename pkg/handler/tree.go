package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"wallet_tracer_back/pkg/service"
)

// StartTree запускает построение дерева. Адреса на T уходят в TRON, остальные в ERC20.
func (h *Handler) StartTree(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		newErrorResponse(c, http.StatusBadRequest, "Missing required parameter: address")
		return
	}

	id, err := h.service.Tracer.Start(address)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			newErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"request_id": id,
		"status":     "Processing started",
	})
}

func (h *Handler) Progress(c *gin.Context) {
	id := c.GetString(requestIDParam)

	progress, err := h.service.Tracer.GetProgress(id)
	if err != nil {
		lookupError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"request_id":        id,
		"status":            progress.Status,
		"progress":          fmt.Sprintf("%d%%", progress.Percent),
		"wallets_processed": progress.WalletsProcessed,
	})
}

// Result отдаёт дерево как есть; пока задача идёт, 202 со статусом
func (h *Handler) Result(c *gin.Context) {
	id := c.GetString(requestIDParam)

	tree, err := h.service.Tracer.GetResult(id)
	if err != nil {
		var failed *service.JobFailedError
		switch {
		case errors.Is(err, service.ErrNotReady):
			c.JSON(http.StatusAccepted, gin.H{"request_id": id, "status": "Running"})
		case errors.As(err, &failed):
			newErrorResponse(c, http.StatusBadGateway, failed.Message)
		default:
			lookupError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *Handler) Jobs(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"jobs": h.service.Tracer.Jobs(),
	})
}

func lookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "Request ID not found or not started")
	case errors.Is(err, service.ErrInvalidInput):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
