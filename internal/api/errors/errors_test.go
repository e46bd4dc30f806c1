package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-api/internal/app/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"no file part", apperrors.ErrNoFilePart, http.StatusBadRequest, "No file part"},
		{"no selected file", apperrors.ErrNoSelectedFile, http.StatusBadRequest, "No selected file"},
		{
			"decode",
			apperrors.E(apperrors.KindDecode, "normalize", errors.New("ffmpeg: invalid data")),
			http.StatusInternalServerError,
			"normalize: ffmpeg: invalid data",
		},
		{
			"transcription",
			apperrors.E(apperrors.KindTranscription, "transcribe chunk 0", errors.New("timeout")),
			http.StatusInternalServerError,
			"transcribe chunk 0: timeout",
		},
		{"untagged", errors.New("boom"), http.StatusInternalServerError, "boom"},
		{"api error passes through", NewBadRequestError("bad"), http.StatusBadRequest, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestAPIError_JSON(t *testing.T) {
	apiErr := &APIError{Kind: KindInternal, Message: "decode failed", RequestID: "abc"}

	data, err := json.Marshal(apiErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "decode failed"}`, string(data))
}
