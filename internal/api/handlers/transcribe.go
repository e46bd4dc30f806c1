package handlers

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-api/internal/api/middleware"
	apperrors "whisper-api/internal/app/errors"
	"whisper-api/internal/app/transcriber"
)

const fileField = "file"

// Pipeline turns one uploaded audio file into a transcript.
type Pipeline interface {
	Transcribe(ctx context.Context, r io.Reader) (transcriber.Transcript, error)
}

// TranscribeHandler handles POST /transcribe
type TranscribeHandler struct {
	pipeline Pipeline
	logger   *zap.Logger
}

// NewTranscribeHandler creates a new transcribe handler
func NewTranscribeHandler(pipeline Pipeline, logger *zap.Logger) *TranscribeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscribeHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Transcribe reads the multipart "file" part and streams it through the
// pipeline. Once the upload is accepted the work is detached from the
// client connection and runs to completion or failure.
//
//	200 {"transcription": "..."}
//	400 {"error": "No file part"} | {"error": "No selected file"}
//	500 {"error": "<message>"}
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	logger := h.logger.With(zap.String("request_id", requestID))

	part, filename, err := findFilePart(c.Request)
	if err != nil {
		logger.Warn("rejected upload", zap.Error(err))
		middleware.HandleError(c, err)
		return
	}
	defer part.Close()

	logger.Info("transcription started", zap.String("filename", filename))
	start := time.Now()

	ctx := context.WithoutCancel(c.Request.Context())
	transcript, err := h.pipeline.Transcribe(ctx, part)
	if err != nil {
		logger.Error("transcription failed",
			zap.String("filename", filename),
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		middleware.HandleError(c, err)
		return
	}

	logger.Info("transcription finished",
		zap.String("filename", filename),
		zap.Int("chunks", len(transcript.Chunks)),
		zap.Duration("audio", transcript.Duration),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, gin.H{"transcription": transcript.Text})
}

// findFilePart walks the multipart body up to the first part named "file"
// that carries a filename parameter. A part whose filename is present but
// empty means the client submitted the form without choosing a file.
func findFilePart(r *http.Request) (*multipart.Part, string, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", apperrors.ErrNoFilePart
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			// io.EOF or a malformed body, either way there is no file
			return nil, "", apperrors.ErrNoFilePart
		}
		if part.FormName() != fileField {
			part.Close()
			continue
		}

		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		filename, isFile := params["filename"]
		if err != nil || !isFile {
			part.Close()
			continue
		}
		if filename == "" {
			part.Close()
			return nil, "", apperrors.ErrNoSelectedFile
		}
		return part, filename, nil
	}
}
