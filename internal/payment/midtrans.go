// Package payment talks to the midtrans payment gateway.
package payment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"restoran/internal/config"
	"restoran/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Session is a hosted checkout started for an order.
type Session struct {
	Reference   string `json:"reference"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// Midtrans creates snap checkouts and checks transaction status through the core API.
type Midtrans struct {
	snap snap.Client
	core coreapi.Client
	now  func() time.Time
}

// NewMidtrans configures both clients with the server key.
func NewMidtrans(cfg config.MidtransConfig) *Midtrans {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}
	m := &Midtrans{now: time.Now}
	m.snap.New(cfg.ServerKey, env)
	m.core.New(cfg.ServerKey, env)
	return m
}

// CreateSession starts a hosted checkout for the order's total.
func (m *Midtrans) CreateSession(order *models.Order) (*Session, error) {
	reference := Reference(order.ID, m.now())
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  reference,
			GrossAmt: int64(math.Round(order.Total)),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.CustomerName,
			Email: order.UserEmail,
			Phone: order.MobileNumber,
		},
	}

	resp, mErr := m.snap.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %w", mErr)
	}
	return &Session{Reference: reference, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// Status asks the gateway for the settlement state of a reference.
func (m *Midtrans) Status(reference string) (models.PaymentStatus, error) {
	resp, mErr := m.core.CheckTransaction(reference)
	if mErr != nil {
		return "", fmt.Errorf("midtrans check transaction %s: %w", reference, mErr)
	}
	return MapTransactionStatus(resp.TransactionStatus, resp.FraudStatus), nil
}

// MapTransactionStatus converts a midtrans transaction_status to a payment status.
func MapTransactionStatus(transactionStatus, fraudStatus string) models.PaymentStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return models.PaymentStatusPending
		}
		return models.PaymentStatusPaid
	case "settlement":
		return models.PaymentStatusPaid
	case "deny", "cancel", "expire", "failure":
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

// Reference builds a gateway order id unique per attempt: order-<id>-<unix>.
func Reference(orderID uint, at time.Time) string {
	return fmt.Sprintf("order-%d-%d", orderID, at.Unix())
}

// ParseReference extracts the order id from a reference built by Reference.
func ParseReference(reference string) (uint, error) {
	parts := strings.Split(reference, "-")
	if len(parts) != 3 || parts[0] != "order" {
		return 0, fmt.Errorf("malformed payment reference %q", reference)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("malformed payment reference %q", reference)
	}
	return uint(id), nil
}
