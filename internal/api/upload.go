package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/common/metrics"
)

// UploadAvatar sends one image to the hosting endpoint as multipart form
// data and returns its public URL. The id is attached as both "id" and
// "businessId" when positive. A response without a usable http(s) URL is an
// error.
func (c *Client) UploadAvatar(ctx context.Context, image io.Reader, filename string, id int) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", normalizeImageName(filename))
	if err != nil {
		return "", apperrors.NewNetworkError(err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", apperrors.NewNetworkError(err)
	}
	if id > 0 {
		idStr := strconv.Itoa(id)
		_ = writer.WriteField("id", idStr)
		_ = writer.WriteField("businessId", idStr)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.NewNetworkError(err)
	}

	endpoint := "/upload-business-avatar"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return "", apperrors.NewNetworkError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return "", c.transportError(endpoint, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewNetworkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorBody
		_ = json.Unmarshal(raw, &envelope)
		return "", apperrors.NewServerError(resp.StatusCode, envelope.text(), nil)
	}

	var upload uploadResponse
	if err := json.Unmarshal(raw, &upload); err != nil {
		return "", invalidUploadError()
	}
	url := upload.resolvedURL()
	if !IsRemoteURL(url) {
		return "", invalidUploadError()
	}
	return url, nil
}

// UploadAvatarFile uploads a local image by path.
func (c *Client) UploadAvatarFile(ctx context.Context, path string, id int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.NewStorageError("open image", err)
	}
	defer f.Close()
	return c.UploadAvatar(ctx, f, filepath.Base(path), id)
}

func invalidUploadError() error {
	return &apperrors.AppError{
		Kind:    apperrors.KindServer,
		Code:    apperrors.ErrCodeUploadInvalid,
		Message: "Respuesta de upload inválida",
	}
}

// normalizeImageName keeps the backend's expected image.<ext> shape; only
// png keeps its extension, everything else is sent as jpg.
func normalizeImageName(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".png") {
		return "image.png"
	}
	return "image.jpg"
}
