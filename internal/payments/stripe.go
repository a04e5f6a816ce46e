package payments

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Client is the thin seam over the payment provider so services and tests
// do not call the SDK directly.
type Client interface {
	CreateCustomer(email string) (string, error)
	CreateCheckoutSession(customerID, successURL, cancelURL string) (string, error)
	CancelSubscription(subscriptionID string) error
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeClient struct {
	priceID        string
	endpointSecret string
}

func NewStripeClient(secretKey, priceID, endpointSecret string) Client {
	stripe.Key = secretKey
	return &stripeClient{priceID: priceID, endpointSecret: endpointSecret}
}

func (c *stripeClient) CreateCustomer(email string) (string, error) {
	cust, err := customer.New(&stripe.CustomerParams{Email: stripe.String(email)})
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CreateCheckoutSession returns the hosted checkout URL for the
// subscription price.
func (c *stripeClient) CreateCheckoutSession(customerID, successURL, cancelURL string) (string, error) {
	s, err := session.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(c.priceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	})
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (c *stripeClient) CancelSubscription(subscriptionID string) error {
	_, err := subscription.Cancel(subscriptionID, nil)
	return err
}

func (c *stripeClient) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.endpointSecret)
}
