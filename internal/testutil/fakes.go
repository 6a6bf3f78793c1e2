package testutil

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"producthunt_back_end/internal/utils"
)

var TokenSecret = []byte("test-access-token-secret")

// Token signe un Bearer token valide pour email.
func Token(t *testing.T, email string) string {
	t.Helper()
	token, err := utils.GenerateJWT(map[string]any{"email": email}, TokenSecret, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

// Gateway simule Stripe : mémorise les prix reçus.
type Gateway struct {
	Secret string
	Err    error
	Prices []float64
}

func (g *Gateway) CreatePaymentIntent(_ context.Context, price float64) (string, error) {
	g.Prices = append(g.Prices, price)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Secret, nil
}

// Uploader simule le stockage d'images.
type Uploader struct {
	URL         string
	Err         error
	Filename    string
	ContentType string
	Body        []byte
}

func (u *Uploader) Upload(_ context.Context, filename string, r io.Reader, _ int64, contentType string) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.Filename, u.ContentType, u.Body = filename, contentType, body
	return u.URL, nil
}
