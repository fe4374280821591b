package uploader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestUpload(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotKey = r.FormValue("key")

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "pixels", string(data))

		fmt.Fprintf(w, `{"data":{"url":"https://img.host/%s"}}`, header.Filename)
	}))
	defer server.Close()

	up := NewHTTPUploader(server.URL, "api-key", testLogger())
	url, err := up.Upload(context.Background(), File{Name: "lamp.png", Data: []byte("pixels")})
	require.NoError(t, err)
	assert.Equal(t, "https://img.host/lamp.png", url)
	assert.Equal(t, "api-key", gotKey)
}

func TestUploadHostError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	up := NewHTTPUploader(server.URL, "", testLogger())
	_, err := up.Upload(context.Background(), File{Name: "x.png", Data: []byte("x")})
	assert.Error(t, err)
}

func TestUploadMissingURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer server.Close()

	up := NewHTTPUploader(server.URL, "", testLogger())
	_, err := up.Upload(context.Background(), File{Name: "x.png", Data: []byte("x")})
	assert.Error(t, err)
}

func TestUploadAllKeepsOrder(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		fmt.Fprintf(w, `{"data":{"url":"https://img.host/%s"}}`, header.Filename)
	}))
	defer server.Close()

	up := NewHTTPUploader(server.URL, "", testLogger())
	files := []File{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
		{Name: "c.png", Data: []byte("c")},
	}
	urls, err := up.UploadAll(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://img.host/a.png",
		"https://img.host/b.png",
		"https://img.host/c.png",
	}, urls, "urls come back in input order")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestUploadAllFailsOnFirstError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		if header.Filename == "bad.png" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"data":{"url":"https://img.host/%s"}}`, header.Filename)
	}))
	defer server.Close()

	up := NewHTTPUploader(server.URL, "", testLogger())
	_, err := up.UploadAll(context.Background(), []File{
		{Name: "good.png", Data: []byte("g")},
		{Name: "bad.png", Data: []byte("b")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.png")
}
