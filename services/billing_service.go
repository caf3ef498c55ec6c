package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/customer"
	"github.com/stripe/stripe-go/v80/subscription"
	"github.com/stripe/stripe-go/v80/webhook"
)

// BillingInterface defines the billing provider operations used for
// merchant subscriptions
type BillingInterface interface {
	CreateCustomer(name, email string) (string, error)
	CreateSubscription(customerID, priceID string) (*stripe.Subscription, error)
	CancelSubscription(subscriptionID string) error
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

// StripeBilling implements BillingInterface against the Stripe API
type StripeBilling struct {
	webhookKey string
}

var billingInstance BillingInterface

// InitBilling configures the Stripe client with the given keys
func InitBilling(secretKey, webhookKey string) BillingInterface {
	stripe.Key = secretKey
	billingInstance = &StripeBilling{webhookKey: webhookKey}
	return billingInstance
}

// GetBilling returns the initialized billing instance
func GetBilling() BillingInterface {
	return billingInstance
}

// SetBilling sets the billing instance (primarily for testing)
func SetBilling(b BillingInterface) {
	billingInstance = b
}

// CreateCustomer creates a Stripe customer for a merchant and returns its ID
func (s *StripeBilling) CreateCustomer(name, email string) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create Stripe customer: %w", err)
	}
	return cust.ID, nil
}

// CreateSubscription subscribes a Stripe customer to a price
func (s *StripeBilling) CreateSubscription(customerID, priceID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	sub, err := subscription.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create Stripe subscription: %w", err)
	}
	return sub, nil
}

// CancelSubscription cancels a Stripe subscription immediately
func (s *StripeBilling) CancelSubscription(subscriptionID string) error {
	if _, err := subscription.Cancel(subscriptionID, nil); err != nil {
		return fmt.Errorf("failed to cancel Stripe subscription: %w", err)
	}
	return nil
}

// ParseWebhook verifies a Stripe webhook signature and returns the event
func (s *StripeBilling) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.webhookKey)
}
