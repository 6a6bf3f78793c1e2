package services

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// StripeGateway crée les PaymentIntents ; la clé secrète est posée au démarrage (stripe.Key).
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

// AmountInCents convertit un prix en dollars en unités mineures, arrondi au cent le plus proche.
func AmountInCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// IntentParams : USD, carte uniquement.
func IntentParams(price float64) *stripe.PaymentIntentParams {
	return &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(AmountInCents(price)),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
}

// CreatePaymentIntent retourne le client secret à transmettre au front.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	params := IntentParams(price)
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
