package admin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"producthunt_back_end/internal/models"
	"producthunt_back_end/internal/testutil"
)

func TestGetStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := testutil.NewStore()
	store.AddProduct(models.Product{Name: "a"})
	store.AddProduct(models.Product{Name: "b"})
	store.AddUser("ada@example.com", "")
	store.Reviews = append(store.Reviews, models.Document{"productId": "x"})

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"counts", nil, http.StatusOK, `{"products":2,"users":1,"reviews":1}`},
		{"store down", errors.New("down"), http.StatusInternalServerError, `{"message":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.Err = tt.err
			r := gin.New()
			r.GET("/stats", NewStatsHandler(store, zerolog.Nop()).GetStats)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
