package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	// ErrCreateOrder возвращается, когда шлюз отклонил создание заказа
	ErrCreateOrder = errors.New("paymentgateway: failed to create order")

	// ErrInvalidAmount возвращается для неположительной суммы
	ErrInvalidAmount = errors.New("paymentgateway: amount must be positive")
)

// StripeGateway создает PaymentIntent на сумму бронирования.
// Проведение и подтверждение оплаты остаются на стороне Stripe и клиента.
type StripeGateway struct {
	api *client.API
	log Logger
}

// NewStripeGateway создает шлюз с секретным ключом Stripe
func NewStripeGateway(secretKey string, log Logger) *StripeGateway {
	return &StripeGateway{
		api: client.New(secretKey, nil),
		log: log,
	}
}

// CreateOrder возвращает идентификатор PaymentIntent
func (g *StripeGateway) CreateOrder(ctx context.Context, bookingID int64, amount decimal.Decimal, currency string) (string, error) {
	minor, err := MinorUnits(amount)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minor),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", strconv.FormatInt(bookingID, 10))
	params.SetIdempotencyKey(fmt.Sprintf("booking-%d", bookingID))

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: booking_id=%d: %v", ErrCreateOrder, bookingID, err)
	}

	g.log.Info("Payment intent %s created for booking id=%d", intent.ID, bookingID)
	return intent.ID, nil
}

// MinorUnits переводит сумму в минимальные единицы валюты (пайсы, центы)
func MinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}

// LocalGateway выдает локальные идентификаторы заказов без обращения к шлюзу (dev-режим)
type LocalGateway struct {
	log Logger
}

func NewLocalGateway(log Logger) *LocalGateway {
	return &LocalGateway{log: log}
}

func (g *LocalGateway) CreateOrder(_ context.Context, bookingID int64, amount decimal.Decimal, currency string) (string, error) {
	if _, err := MinorUnits(amount); err != nil {
		return "", err
	}
	orderID := "local_" + uuid.NewString()
	g.log.Info("Local payment order %s for booking id=%d: %s %s", orderID, bookingID, amount.StringFixed(2), currency)
	return orderID, nil
}
