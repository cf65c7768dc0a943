package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/storage"
	"github.com/gin-gonic/gin"
)

type ImageStore interface {
	Upload(ctx context.Context, ownerID, fileName, contentType, ext string, body io.Reader, size int64) (storage.Upload, error)
}

type ImagesHandler struct {
	store    ImageStore
	maxBytes int64
	timeout  time.Duration
	prom     *observability.Prom
}

// NewImagesHandler accepts a nil store; uploads then answer 503.
func NewImagesHandler(store ImageStore, maxBytes int64, timeout time.Duration, prom *observability.Prom) *ImagesHandler {
	return &ImagesHandler{store: store, maxBytes: maxBytes, timeout: timeout, prom: prom}
}

func (h *ImagesHandler) UploadImage(ctx *gin.Context) {
	if h.store == nil {
		RespondUnavailable(ctx, "Image uploads are not configured")
		return
	}

	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(ctx, http.StatusRequestEntityTooLarge, "body_too_large", "Image too large", gin.H{"limit": h.maxBytes})
			return
		}
		RespondBadRequest(ctx, "No image uploaded", gin.H{"field": "image"})
		return
	}

	if fh.Size > h.maxBytes {
		RespondError(ctx, http.StatusRequestEntityTooLarge, "body_too_large", "Image too large", gin.H{"limit": h.maxBytes})
		return
	}

	f, err := fh.Open()
	if err != nil {
		RespondBadRequest(ctx, "Could not read image", nil)
		return
	}
	defer f.Close()

	// trust the bytes, not the client's Content-Type
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		RespondBadRequest(ctx, "Could not read image", nil)
		return
	}

	if !strings.HasPrefix(mt.String(), "image/") {
		RespondBadRequest(ctx, "Only image files are allowed", gin.H{"contentType": mt.String()})
		return
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		RespondInternal(ctx, "Could not read image")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	up, err := h.store.Upload(cctx, uid, fh.Filename, mt.String(), mt.Extension(), f, fh.Size)
	if err != nil {
		respondDomainError(ctx, err, "Could not upload image")
		return
	}

	if h.prom != nil {
		h.prom.ImageUploadBytes.Observe(float64(fh.Size))
	}

	ctx.JSON(http.StatusCreated, up)
}
