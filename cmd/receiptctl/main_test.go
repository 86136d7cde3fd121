package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iurnickita/receiptprocessor/internal/handler"
	"github.com/iurnickita/receiptprocessor/internal/receiptclient"
	"github.com/iurnickita/receiptprocessor/internal/service"
	"github.com/iurnickita/receiptprocessor/internal/store"
)

const receiptJSON = `{
  "retailer": "Target",
  "purchaseDate": "2022-01-02",
  "purchaseTime": "15:00",
  "items": [{"shortDescription": "Emils Cheese Pizza", "price": "12.25"}],
  "total": "12.25"
}`

func TestRunProcessAndPoints(t *testing.T) {
	t.Setenv("RECEIPTS_ADDRESS", "")
	zaplog := zaptest.NewLogger(t)
	srv := httptest.NewServer(handler.NewRouter(service.NewService(store.NewStore(), zaplog), zaplog))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	err := run([]string{"-s", srv.URL, "process"}, strings.NewReader(receiptJSON), &out)
	require.NoError(t, err)
	id := strings.TrimSpace(out.String())
	require.NotEmpty(t, id)

	// 6 за название, 25 за кратность 0.25, 3 за описание, 5 за сумму больше 10, 10 за время
	out.Reset()
	err = run([]string{"-s", srv.URL, "points", id}, nil, &out)
	require.NoError(t, err)
	require.Equal(t, "49", strings.TrimSpace(out.String()))

	err = run([]string{"-s", srv.URL, "points", "unknown"}, nil, &out)
	require.ErrorIs(t, err, receiptclient.ErrNotFound)
}

func TestRunUsage(t *testing.T) {
	t.Setenv("RECEIPTS_ADDRESS", "")

	require.Error(t, run([]string{"delete"}, nil, &bytes.Buffer{}))
	require.Error(t, run([]string{"points"}, nil, &bytes.Buffer{}))
}
