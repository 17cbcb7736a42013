package v1

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

const defaultOwnerType = "general"

type UploadService interface {
	UploadImage(ctx context.Context, ownerType string, ownerID *string, open service.Opener) (domain.Media, error)
	UploadImages(ctx context.Context, ownerType string, ownerID *string, files []service.Opener) ([]domain.Media, error)
}

type UploadHandler struct {
	svc UploadService
}

func NewUploadHandler(svc UploadService) *UploadHandler {
	return &UploadHandler{
		svc: svc,
	}
}

func opener(fh *multipart.FileHeader) service.Opener {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func uploadOwner(ctx *gin.Context) (string, *string) {
	ownerType := ctx.PostForm("ownerType")
	if ownerType == "" {
		ownerType = defaultOwnerType
	}

	var ownerID *string
	if id := ctx.PostForm("ownerId"); id != "" {
		ownerID = &id
	}

	return ownerType, ownerID
}

// HandleUploadImage godoc
// @Summary      Upload an image
// @Description  JPEG, PNG, GIF or WebP up to 10 MB, resized to fit 1200x800.
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Param        file       formData  file    true   "image"
// @Param        ownerType  formData  string  false  "owner kind, e.g. event"
// @Param        ownerId    formData  string  false  "owner ID"
// @Success      201  {object}  response.UploadResponse
// @Failure      400  {object}  response.Err
// @Router       /upload/image [post]
// @Security BearerAuth
func (h *UploadHandler) HandleUploadImage(ctx *gin.Context) {
	var open service.Opener
	if fh, err := ctx.FormFile("file"); err == nil {
		open = opener(fh)
	}
	ownerType, ownerID := uploadOwner(ctx)

	media, err := h.svc.UploadImage(ctx.Request.Context(), ownerType, ownerID, open)
	if err != nil {
		renderErr(ctx, "v1.HandleUploadImage -> h.svc.UploadImage", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.UploadResponse{URL: media.URL, Media: media})
}

// HandleUploadImages godoc
// @Summary      Upload several images
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Param        files      formData  file    true   "images, at most 10"
// @Param        ownerType  formData  string  false  "owner kind, e.g. event"
// @Param        ownerId    formData  string  false  "owner ID"
// @Success      201  {object}  response.UploadsResponse
// @Failure      400  {object}  response.Err
// @Router       /upload/images [post]
// @Security BearerAuth
func (h *UploadHandler) HandleUploadImages(ctx *gin.Context) {
	var files []service.Opener
	if form, err := ctx.MultipartForm(); err == nil {
		for _, fh := range form.File["files"] {
			files = append(files, opener(fh))
		}
	}
	ownerType, ownerID := uploadOwner(ctx)

	media, err := h.svc.UploadImages(ctx.Request.Context(), ownerType, ownerID, files)
	if err != nil {
		renderErr(ctx, "v1.HandleUploadImages -> h.svc.UploadImages", err)
		return
	}

	urls := make([]string, 0, len(media))
	for _, m := range media {
		urls = append(urls, m.URL)
	}

	ctx.JSON(http.StatusCreated, response.UploadsResponse{URLs: urls, Media: media})
}
