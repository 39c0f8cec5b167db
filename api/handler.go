package api

import (
	"context"
	stderrors "errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/audiostore"
	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/pipeline"
	"github.com/kbukum/lingolink/server"
	"github.com/kbukum/lingolink/util"
	"github.com/kbukum/lingolink/validation"
)

// LiveMessage is the body of GET /.
const LiveMessage = "LingoLink backend is live!"

// Form field names of POST /process_audio.
const (
	FieldAudio      = "audio"
	FieldTargetLang = "target_lang"
)

// Processor runs the translation pipeline.
type Processor interface {
	Process(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// AudioFiles opens generated audio by name.
type AudioFiles interface {
	Open(ctx context.Context, name string) (*audiostore.File, error)
}

// Handler serves the public API.
type Handler struct {
	processor Processor
	files     AudioFiles
	maxBody   string
	log       *logger.Logger
}

// NewHandler creates the API handler. maxBody is the configured body size
// limit, reported when an upload exceeds it.
func NewHandler(processor Processor, files AudioFiles, maxBody string, log *logger.Logger) *Handler {
	return &Handler{
		processor: processor,
		files:     files,
		maxBody:   maxBody,
		log:       log.WithComponent("api"),
	}
}

// Register mounts the API routes.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Root)
	r.POST("/process_audio", h.ProcessAudio)
	r.GET("/uploads/:filename", h.ServeUpload)

	r.NoRoute(func(c *gin.Context) {
		server.RespondWithError(c, errors.NotFound("route", c.Request.URL.Path))
	})
	r.NoMethod(func(c *gin.Context) {
		server.RespondWithError(c, errors.New(errors.ErrCodeInvalidInput, "Method not allowed.", http.StatusMethodNotAllowed))
	})
}

// Root reports that the service is up.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": LiveMessage})
}

type processForm struct {
	TargetLang string `form:"target_lang" validate:"omitempty,language"`
}

// ProcessAudio accepts a multipart upload with an "audio" file and an
// optional "target_lang", runs the pipeline and returns its result.
func (h *Handler) ProcessAudio(c *gin.Context) {
	defer func() {
		if form := c.Request.MultipartForm; form != nil {
			_ = form.RemoveAll()
		}
	}()

	header, err := c.FormFile(FieldAudio)
	if err != nil {
		server.RespondWithError(c, h.uploadError(err))
		return
	}

	form := processForm{TargetLang: util.SanitizeString(c.PostForm(FieldTargetLang))}
	if err := validation.Validate(form); err != nil {
		server.RespondWithError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}
	defer file.Close()

	res, err := h.processor.Process(c.Request.Context(), pipeline.Input{
		Audio:      file,
		Filename:   header.Filename,
		TargetLang: form.TargetLang,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, res)
}

func (h *Handler) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return errors.PayloadTooLarge(h.maxBody)
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		return errors.MissingField(FieldAudio)
	case stderrors.Is(err, multipart.ErrMessageTooLarge):
		return errors.PayloadTooLarge(h.maxBody)
	default:
		return errors.InvalidInput(FieldAudio, "malformed multipart body")
	}
}

// ServeUpload streams a generated audio file. Unknown names are 404.
func (h *Handler) ServeUpload(c *gin.Context) {
	f, err := h.files.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer f.Body.Close()

	size := f.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, f.ContentType, f.Body, map[string]string{
		"Content-Disposition": `inline; filename="` + f.Name + `"`,
		"Cache-Control":       "private, max-age=3600",
	})
}
