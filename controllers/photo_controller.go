package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PMark-est/catshelp/services"
	"github.com/PMark-est/catshelp/utils"
)

// uploadSuccessMessage matches the SPA's expectation.
const uploadSuccessMessage = "Pildid laeti üles edukalt"

// PhotoController accepts photo uploads for a cat.
type PhotoController struct {
	photos *services.PhotoService
	await  bool
}

func NewPhotoController(photos *services.PhotoService, await bool) *PhotoController {
	return &PhotoController{photos: photos, await: await}
}

// Upload handles POST /api/pilt/lisa: header Cat-Name plus one or more
// multipart files under the "images" field.
func (p *PhotoController) Upload(ctx *gin.Context) {
	catName := ctx.GetHeader("Cat-Name")
	if catName == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing Cat-Name header")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		utils.Error(ctx, http.StatusBadRequest, "no images uploaded")
		return
	}

	photos := make([]services.Photo, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, "unreadable upload: "+header.Filename)
			return
		}
		if p.await {
			defer f.Close()
			photos = append(photos, services.Photo{Name: header.Filename, Content: f})
			continue
		}
		// Detached uploads outlive the request; the multipart temp
		// files do not, so buffer the content first.
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, "unreadable upload: "+header.Filename)
			return
		}
		photos = append(photos, services.Photo{Name: header.Filename, Content: bytes.NewReader(data)})
	}

	results, err := p.photos.Ingest(ctx.Request.Context(), catName, photos)
	if err != nil {
		if errors.Is(err, services.ErrUnknownExtension) {
			utils.Error(ctx, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	if results == nil {
		ctx.JSON(http.StatusOK, uploadSuccessMessage)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": uploadSuccessMessage, "files": results})
}
