package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidConfig = errors.New("media_config_invalid")
	ErrUploadFailed  = errors.New("media_upload_failed")
)

type hostedUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// HostedStore uploads files to an HTTP media host using an unsigned
// upload preset.
type HostedStore struct {
	uploadURL    string
	uploadPreset string
	client       *http.Client
}

func NewHosted(uploadURL, uploadPreset string) *HostedStore {
	return &HostedStore{
		uploadURL:    strings.TrimSpace(uploadURL),
		uploadPreset: strings.TrimSpace(uploadPreset),
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HostedStore) Upload(ctx context.Context, fileName string, content []byte) (string, error) {
	if s.uploadURL == "" {
		return "", ErrInvalidConfig
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if s.uploadPreset != "" {
		if err := writer.WriteField("upload_preset", s.uploadPreset); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", ErrUploadFailed
	}

	var uploaded hostedUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", err
	}
	if uploaded.SecureURL != "" {
		return uploaded.SecureURL, nil
	}
	if uploaded.URL != "" {
		return uploaded.URL, nil
	}
	return "", ErrUploadFailed
}

var _ Store = (*HostedStore)(nil)
