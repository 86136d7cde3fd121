package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iurnickita/receiptprocessor/internal/model"
	"github.com/iurnickita/receiptprocessor/internal/points"
	"github.com/iurnickita/receiptprocessor/internal/store"
	"github.com/iurnickita/receiptprocessor/internal/validate"
)

type Service interface {
	Process(ctx context.Context, receipt model.Receipt) (string, error)
	Points(ctx context.Context, id string) (int, error)
}

var (
	ErrInvalidReceipt = errors.New("the receipt is invalid")
	ErrNotFound       = errors.New("no receipt found for that id")
)

type service struct {
	store  store.Store
	zaplog *zap.Logger
}

func NewService(store store.Store, zaplog *zap.Logger) Service {
	return &service{
		store:  store,
		zaplog: zaplog,
	}
}

func (service *service) Process(ctx context.Context, receipt model.Receipt) (string, error) {
	// Проверка формата
	if err := validate.Receipt(receipt).Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}

	// Расчет баллов
	breakdown, err := points.Explain(receipt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	total := breakdown.Total()

	id, err := service.store.Put(ctx, total)
	if err != nil {
		return "", err
	}

	service.zaplog.Debug("receipt scored",
		zap.String("id", id),
		zap.String("retailer", receipt.Retailer),
		zap.Int("points", total),
		zap.Any("breakdown", breakdown),
		zap.Int("stored", service.store.Len()),
	)

	return id, nil
}

func (service *service) Points(ctx context.Context, id string) (int, error) {
	// Идентификаторы выдаются только в формате UUID
	if _, err := uuid.Parse(id); err != nil {
		return 0, ErrNotFound
	}

	receipt, err := service.store.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return 0, ErrNotFound
		default:
			return 0, err
		}
	}
	return receipt.Points, nil
}
