// Package receiptclient is an HTTP client for the receipt processor API.
package receiptclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/iurnickita/receiptprocessor/internal/model"
)

var (
	ErrInvalidReceipt = errors.New("the receipt is invalid")
	ErrNotFound       = errors.New("no receipt found for that id")
)

type Client interface {
	Process(ctx context.Context, receipt model.Receipt) (string, error)
	Points(ctx context.Context, id string) (int, error)
}

// JSON запроса и ответов сервиса
type itemJSON struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

type receiptJSON struct {
	Retailer     string     `json:"retailer"`
	PurchaseDate string     `json:"purchaseDate"`
	PurchaseTime string     `json:"purchaseTime"`
	Items        []itemJSON `json:"items"`
	Total        string     `json:"total"`
}

type processAnswer struct {
	ID string `json:"id"`
}

type pointsAnswer struct {
	Points int `json:"points"`
}

type client struct {
	resty *resty.Client
}

// NewClient returns a client for the service listening at serviceAddr,
// e.g. "http://localhost:8080".
func NewClient(serviceAddr string) Client {
	return client{resty: resty.New().SetBaseURL(serviceAddr)}
}

func (c client) Process(ctx context.Context, receipt model.Receipt) (string, error) {
	var answer processAnswer
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(toJSON(receipt)).
		SetResult(&answer).
		Post("/receipts/process")
	if err != nil {
		return "", err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return answer.ID, nil
	case http.StatusBadRequest:
		return "", ErrInvalidReceipt
	default:
		return "", fmt.Errorf("process request status: %d", resp.StatusCode())
	}
}

func (c client) Points(ctx context.Context, id string) (int, error) {
	var answer pointsAnswer
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&answer).
		Get("/receipts/{id}/points")
	if err != nil {
		return 0, err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return answer.Points, nil
	case http.StatusNotFound:
		return 0, ErrNotFound
	default:
		return 0, fmt.Errorf("points request status: %d", resp.StatusCode())
	}
}

func toJSON(receipt model.Receipt) receiptJSON {
	items := make([]itemJSON, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		items = append(items, itemJSON{ShortDescription: item.ShortDescription, Price: item.Price})
	}
	return receiptJSON{
		Retailer:     receipt.Retailer,
		PurchaseDate: receipt.PurchaseDate,
		PurchaseTime: receipt.PurchaseTime,
		Items:        items,
		Total:        receipt.Total,
	}
}

// FromJSON decodes a receipt in the API wire format.
func FromJSON(data []byte) (model.Receipt, error) {
	var r receiptJSON
	if err := json.Unmarshal(data, &r); err != nil {
		return model.Receipt{}, err
	}
	items := make([]model.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, model.Item{ShortDescription: item.ShortDescription, Price: item.Price})
	}
	return model.Receipt{
		Retailer:     r.Retailer,
		PurchaseDate: r.PurchaseDate,
		PurchaseTime: r.PurchaseTime,
		Items:        items,
		Total:        r.Total,
	}, nil
}
