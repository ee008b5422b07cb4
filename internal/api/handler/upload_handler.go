package handler

import (
	"bufio"
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

// UploadHandler serves stored entry images under /uploads.
type UploadHandler struct {
	images ports.ImageStore
}

func NewUploadHandler(images ports.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// Serve handles GET /uploads/:name.
//
// @Summary      Fetch an uploaded entry image
// @Tags         entries
// @Produce      image/*
// @Param        name  path      string  true  "Stored file name"
// @Success      200   {file}    file
// @Failure      404   {object}  errorResponse
// @Router       /uploads/{name} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	rc, err := h.images.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return echo.NewHTTPError(http.StatusNotFound, "Image not found")
		}
		return err
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 3072)
	head, err := br.Peek(3072)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return err
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return c.Stream(http.StatusOK, mimetype.Detect(head).String(), br)
}
