package services

import (
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v80"
)

// MockBilling is a fake BillingInterface for tests
type MockBilling struct {
	CustomerID       string
	SubscriptionID   string
	SubStatus        stripe.SubscriptionStatus
	CreateCustErr    error
	CreateSubErr     error
	CancelErr        error
	WebhookEvent     stripe.Event
	WebhookErr       error
	CancelledSubIDs  []string
	CreatedCustomers int
}

func (m *MockBilling) CreateCustomer(name, email string) (string, error) {
	if m.CreateCustErr != nil {
		return "", m.CreateCustErr
	}
	m.CreatedCustomers++
	if m.CustomerID == "" {
		return "cus_mock", nil
	}
	return m.CustomerID, nil
}

func (m *MockBilling) CreateSubscription(customerID, priceID string) (*stripe.Subscription, error) {
	if m.CreateSubErr != nil {
		return nil, m.CreateSubErr
	}
	id := m.SubscriptionID
	if id == "" {
		id = "sub_mock"
	}
	status := m.SubStatus
	if status == "" {
		status = stripe.SubscriptionStatusActive
	}
	return &stripe.Subscription{
		ID:               id,
		Status:           status,
		CurrentPeriodEnd: time.Now().AddDate(0, 1, 0).Unix(),
	}, nil
}

func (m *MockBilling) CancelSubscription(subscriptionID string) error {
	if m.CancelErr != nil {
		return m.CancelErr
	}
	m.CancelledSubIDs = append(m.CancelledSubIDs, subscriptionID)
	return nil
}

func (m *MockBilling) ParseWebhook(r *http.Request) (stripe.Event, error) {
	return m.WebhookEvent, m.WebhookErr
}
