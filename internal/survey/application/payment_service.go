package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

type paymentService struct {
	gateway  PaymentGateway
	payments PaymentRepository
	now      clock
}

// NewPaymentService wires checkout use-cases to the gateway and ledger.
func NewPaymentService(gateway PaymentGateway, payments PaymentRepository) PaymentService {
	return &paymentService{gateway: gateway, payments: payments, now: time.Now}
}

func (s *paymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount, err := ToMinorUnits(price)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateIntent(ctx, amount)
}

func (s *paymentService) Record(ctx context.Context, cmd RecordPaymentCommand) (store.InsertResult, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		return store.InsertResult{}, fmt.Errorf("%w: email is required", apperr.ErrInvalidInput)
	}
	payment := &domain.Payment{
		Email:         email,
		Name:          strings.TrimSpace(cmd.Name),
		Price:         cmd.Price,
		TransactionID: strings.TrimSpace(cmd.TransactionID),
		Date:          strings.TrimSpace(cmd.Date),
		CreatedAt:     s.now().UTC(),
	}
	return s.payments.Insert(ctx, payment)
}

func (s *paymentService) ListByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	return s.payments.FindByEmail(ctx, strings.TrimSpace(email))
}

// MaxMinorUnits is the largest charge Stripe accepts, in cents.
const MaxMinorUnits = 99999999

// ToMinorUnits converts a decimal price to cents, rounding to the nearest cent.
// Prices that round to zero or exceed MaxMinorUnits are rejected.
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: price must be positive", apperr.ErrInvalidInput)
	}
	cents := math.Round(price * 100)
	if cents < 1 {
		return 0, fmt.Errorf("%w: price must be at least 0.01", apperr.ErrInvalidInput)
	}
	if cents > MaxMinorUnits {
		return 0, fmt.Errorf("%w: price exceeds the maximum charge", apperr.ErrInvalidInput)
	}
	return int64(cents), nil
}
