package delivery

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
	"github.com/Sezy0/NeoMart-Backend/internal/uploader"
)

// 10 MiB per request keeps the image host happy.
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	uploader uploader.Uploader
	log      *logrus.Logger
}

func NewUploadHandler(up uploader.Uploader, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{uploader: up, log: logger}
}

func (h *UploadHandler) UploadImages(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "No images provided")
		return
	}

	files := make([]uploader.File, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
			return
		}
		files = append(files, uploader.File{Name: header.Filename, Data: data})
	}

	urls, err := h.uploader.UploadAll(c.Request.Context(), files)
	if err != nil {
		h.log.Errorf("Image upload failed for user %d: %v", middleware.UserID(c), err)
		ErrorResponse(c, http.StatusBadGateway, "Image upload failed")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Images uploaded successfully", gin.H{"urls": urls})
}
