package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/iurnickita/receiptprocessor/internal/gzip"
	"github.com/iurnickita/receiptprocessor/internal/handler/config"
	"github.com/iurnickita/receiptprocessor/internal/logger"
	"github.com/iurnickita/receiptprocessor/internal/model"
	"github.com/iurnickita/receiptprocessor/internal/service"
	"github.com/iurnickita/receiptprocessor/internal/validate"
)

const (
	msgInvalidReceipt = "The receipt is invalid."
	msgNotFound       = "No receipt found for that ID."
)

// maxReceiptBytes limits the decompressed size of a submitted receipt.
const maxReceiptBytes = 1 << 20

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, cfg config.Config, service service.Service, zaplog *zap.Logger) error {
	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: NewRouter(service, zaplog),
	}

	errc := make(chan error, 1)
	go func() {
		zaplog.Info("starting server", zap.String("addr", cfg.ServerAddr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	zaplog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewRouter returns the routes of the receipt API.
func NewRouter(service service.Service, zaplog *zap.Logger) http.Handler {
	return newHandler(service, zaplog).newRouter()
}

type handler struct {
	service service.Service
	zaplog  *zap.Logger
}

func newHandler(service service.Service, zaplog *zap.Logger) *handler {
	return &handler{
		service: service,
		zaplog:  zaplog,
	}
}

func (h *handler) newRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /receipts/process", gzip.GzipMiddleware(limitBody(logger.RequestLogMdlw(h.PostReceipt, h.zaplog), maxReceiptBytes)))
	mux.HandleFunc("GET /receipts/{id}/points", gzip.GzipMiddleware(logger.RequestLogMdlw(h.GetPoints, h.zaplog)))

	return mux
}

func limitBody(h http.HandlerFunc, n int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}

type ItemJSON struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

type PostReceiptJSONRequest struct {
	Retailer     string     `json:"retailer"`
	PurchaseDate string     `json:"purchaseDate"`
	PurchaseTime string     `json:"purchaseTime"`
	Items        []ItemJSON `json:"items"`
	Total        string     `json:"total"`
}

type PostReceiptJSONResponse struct {
	ID string `json:"id"`
}

func (h *handler) PostReceipt(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r.Body)
	if err != nil {
		h.zaplog.Debug("cannot read receipt", zap.Error(err))
		http.Error(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}

	// Проверка по схеме
	if err = validate.JSON(buf.Bytes()).Err(); err != nil {
		h.zaplog.Debug("receipt does not match schema", zap.Error(err))
		http.Error(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}

	var receiptJSON PostReceiptJSONRequest
	dec := json.NewDecoder(&buf)
	dec.DisallowUnknownFields()
	if err = dec.Decode(&receiptJSON); err != nil {
		h.zaplog.Debug("cannot decode receipt", zap.Error(err))
		http.Error(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}

	id, err := h.service.Process(r.Context(), receiptJSON.toModel())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReceipt):
			h.zaplog.Debug("receipt rejected", zap.Error(err))
			http.Error(w, msgInvalidReceipt, http.StatusBadRequest)
		default:
			h.zaplog.Error("cannot process receipt", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, PostReceiptJSONResponse{ID: id})
}

type GetPointsJSONResponse struct {
	Points int `json:"points"`
}

func (h *handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	points, err := h.service.Points(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, msgNotFound, http.StatusNotFound)
		default:
			h.zaplog.Error("cannot get points", zap.String("id", id), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, GetPointsJSONResponse{Points: points})
}

func (h *handler) writeJSON(w http.ResponseWriter, v any) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(responseJSON)
}

func (req PostReceiptJSONRequest) toModel() model.Receipt {
	items := make([]model.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.Item{
			ShortDescription: item.ShortDescription,
			Price:            item.Price,
		})
	}
	return model.Receipt{
		Retailer:     req.Retailer,
		PurchaseDate: req.PurchaseDate,
		PurchaseTime: req.PurchaseTime,
		Items:        items,
		Total:        req.Total,
	}
}
