package models

// PaymentIntentRequest : price est un nombre ou une chaîne numérique, strictement positif.
type PaymentIntentRequest struct {
	Price any `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
