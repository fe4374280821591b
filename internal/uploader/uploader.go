package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// File is a single image to forward to the external image host.
type File struct {
	Name string
	Data []byte
}

type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
	// UploadAll fans the files out in parallel and returns the hosted URLs
	// in input order. The first failure fails the whole call.
	UploadAll(ctx context.Context, files []File) ([]string, error)
}

type httpUploader struct {
	client    *http.Client
	uploadURL string
	apiKey    string
	log       *logrus.Logger
}

func NewHTTPUploader(uploadURL, apiKey string, logger *logrus.Logger) Uploader {
	return &httpUploader{
		client:    &http.Client{Timeout: 30 * time.Second},
		uploadURL: uploadURL,
		apiKey:    apiKey,
		log:       logger,
	}
}

type hostResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (u *httpUploader) Upload(ctx context.Context, file File) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", file.Name)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("failed to write file data: %w", err)
	}
	if u.apiKey != "" {
		if err := writer.WriteField("key", u.apiKey); err != nil {
			return "", fmt.Errorf("failed to write api key field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		u.log.Errorf("Uploader: image host returned %d for %s: %s", resp.StatusCode, file.Name, payload)
		return "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	var parsed hostResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode image host response: %w", err)
	}
	if parsed.Data.URL == "" {
		return "", fmt.Errorf("image host response missing url")
	}

	u.log.Infof("Uploader: %s uploaded successfully", file.Name)
	return parsed.Data.URL, nil
}

func (u *httpUploader) UploadAll(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			urls[idx], errs[idx] = u.Upload(ctx, files[idx])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("upload of %q failed: %w", files[i].Name, err)
		}
	}
	return urls, nil
}
