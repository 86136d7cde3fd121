package gzip

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func echo(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func TestGzipMiddleware(t *testing.T) {
	const payload = `{"retailer":"Target","total":"35.35"}`

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	t.Run("compressed request and response", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", &compressed)
		r.Header.Set("Content-Encoding", "gzip")
		r.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()

		GzipMiddleware(echo)(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

		zr, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(zr)
		require.NoError(t, err)
		require.Equal(t, payload, string(body))
	})

	t.Run("plain request and response", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		w := httptest.NewRecorder()

		GzipMiddleware(echo)(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Header().Get("Content-Encoding"))
		require.Equal(t, payload, w.Body.String())
	})

	t.Run("broken compressed request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		r.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()

		GzipMiddleware(echo)(w, r)

		// ошибку заголовка видит сам обработчик
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), gzip.ErrHeader.Error())
	})
}
