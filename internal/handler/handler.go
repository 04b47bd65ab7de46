package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/faizanTadvi/SIHP1/internal/config"
	"github.com/faizanTadvi/SIHP1/internal/image"
	"github.com/faizanTadvi/SIHP1/internal/log"
	"github.com/faizanTadvi/SIHP1/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

const (
	fileField = "file"

	msgNotInitialized = "Server configuration error: Model not initialized."
	msgNoFilePart     = "No file part in the request"
	msgNoFileSelected = "No file selected for uploading"
	msgNotAnImage     = "Uploaded file is not a supported image"
	msgTooLarge       = "Uploaded file is too large"
	msgFailed         = "An error occurred on the server while processing the image."
)

type BreedResponse struct {
	Breed string `json:"breed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Ready  bool   `json:"ready"`
}

type Handler struct {
	handle    *model.Handle
	maxUpload int64
	maxPixels int64
}

func NewHandler(i *do.Injector) (*Handler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &Handler{
		handle:    do.MustInvoke[*model.Handle](i),
		maxUpload: cfg.MaxUploadBytes,
		maxPixels: cfg.MaxImagePixels,
	}, nil
}

// Predict classifies the image uploaded in the "file" form field.
func (h *Handler) Predict(c *gin.Context) {
	log := log.FromContextOrDiscard(c.Request.Context()).WithGroup("predict")

	classifier, err := h.handle.Classifier()
	if err != nil {
		log.Error("model unavailable", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgNotInitialized})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	part, filename, err := filePart(c.Request)
	if err != nil {
		log.Warn("no file part", "error", err)
		c.JSON(statusFor(err, http.StatusBadRequest), ErrorResponse{Error: lookupMessage(err, msgNoFilePart)})
		return
	}
	defer part.Close()
	if filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoFileSelected})
		return
	}
	log = log.With("filename", filename)

	img, err := image.Decode(part, h.maxPixels)
	if err != nil {
		switch {
		case errors.Is(err, image.ErrUnsupported):
			log.Warn("rejecting undecodable upload", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNotAnImage})
		default:
			log.Error("reading upload failed", "error", err, "category", fmt.Sprintf("%T", err))
			c.JSON(statusFor(err, http.StatusInternalServerError), ErrorResponse{Error: lookupMessage(err, msgFailed)})
		}
		return
	}

	text, err := classifier.Classify(c.Request.Context(), img)
	if err != nil {
		log.Error("CRITICAL ERROR: exception during model call", "error", err, "category", fmt.Sprintf("%T", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgFailed})
		return
	}

	breed := strings.TrimSpace(text)
	log.Info("classified upload", "breed", breed)
	c.JSON(http.StatusOK, BreedResponse{Breed: breed})
}

func (h *Handler) Health(c *gin.Context) {
	_, err := h.handle.Classifier()
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Model:  h.handle.Name(),
		Ready:  err == nil,
	})
}

// filePart walks the multipart body up to the first file part named "file".
// A part without a filename parameter is a plain form value, not a file.
func filePart(r *http.Request) (*multipart.Part, string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", err
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			if err == io.EOF {
				return nil, "", http.ErrMissingFile
			}
			return nil, "", err
		}
		if part.FormName() == fileField {
			_, params, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
			if _, ok := params["filename"]; ok {
				return part, part.FileName(), nil
			}
		}
		part.Close()
	}
}

func statusFor(err error, fallback int) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return fallback
}

func lookupMessage(err error, fallback string) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return msgTooLarge
	}
	return fallback
}
