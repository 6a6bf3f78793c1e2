package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
	"producthunt_back_end/internal/testutil"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(store *testutil.Store) *gin.Engine {
	h := NewHandler(store, zerolog.Nop())
	h.now = func() time.Time { return fixedNow }
	reviews := NewReviewHandler(store, zerolog.Nop())
	auth := middleware.AuthRequired(testutil.TokenSecret, zerolog.Nop())

	r := gin.New()
	r.GET("/products", h.GetAllProducts)
	r.GET("/featured/products", h.GetFeaturedProducts)
	r.GET("/trending/products", h.GetTrendingProducts)
	r.GET("/accepted/products", h.GetAcceptedProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/my/products", h.GetProductsByOwner)
	r.POST("/products", auth, h.CreateProduct)
	r.DELETE("/products/:id", auth, h.DeleteProduct)
	r.GET("/reviews/:productId", reviews.GetProductReviews)
	r.POST("/reviews", auth, reviews.CreateReview)
	return r
}

func perform(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func accepted(name string, createdAt time.Time, tags ...string) models.Product {
	return models.Product{
		Name:      name,
		Tags:      tags,
		Status:    models.StatusAccepted,
		Category:  models.CategoryNew,
		CreatedAt: createdAt,
	}
}

const validProduct = `{
	"name": "Lumen",
	"image": "https://img.example.com/lumen.png",
	"description": "Notes that light up",
	"tags": ["productivity", "ai"],
	"external_link": "https://lumen.example.com",
	"owner": {"name": "Ada", "email": "ada@example.com", "image": "https://img.example.com/ada.png"},
	"upvotes": 999,
	"status": "Rejected",
	"category": "featured",
	"createdAt": "1999-01-01T00:00:00Z"
}`

func TestCreateProductAppliesServerDefaults(t *testing.T) {
	store := testutil.NewStore()
	r := newRouter(store)

	w := perform(r, http.MethodPost, "/products", validProduct, testutil.Token(t, "ada@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := decode[models.InsertResult](t, w)
	assert.True(t, res.Acknowledged)
	require.NotNil(t, res.InsertedID)

	require.Len(t, store.Products, 1)
	p := store.Products[0]
	assert.Equal(t, *res.InsertedID, p.ID)
	assert.Equal(t, "Lumen", p.Name)
	assert.Equal(t, 0, p.Upvotes)
	assert.Equal(t, models.StatusAccepted, p.Status)
	assert.Equal(t, models.CategoryNew, p.Category)
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Equal(t, []string{"productivity", "ai"}, p.Tags)
	assert.Equal(t, "ada@example.com", p.Owner.Email)
}

func TestCreateProductDefaultsOptionalFields(t *testing.T) {
	store := testutil.NewStore()
	r := newRouter(store)

	body := `{"name":"n","image":"i","description":"d","owner":{"name":"a","email":"a@x.io","image":"p"}}`
	w := perform(r, http.MethodPost, "/products", body, testutil.Token(t, "a@x.io"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, store.Products, 1)
	assert.Equal(t, []string{}, store.Products[0].Tags)
	assert.Empty(t, store.Products[0].ExternalLink)
}

func TestCreateProductRejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"image":"i","description":"d","owner":{"name":"a","email":"a@x.io","image":"p"}}`},
		{"missing description", `{"name":"n","image":"i","owner":{"name":"a","email":"a@x.io","image":"p"}}`},
		{"missing owner", `{"name":"n","image":"i","description":"d"}`},
		{"missing owner email", `{"name":"n","image":"i","description":"d","owner":{"name":"a","image":"p"}}`},
		{"not json", `name=n`},
		{"array body", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStore()
			w := perform(newRouter(store), http.MethodPost, "/products", tt.body, testutil.Token(t, "a@x.io"))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, store.Products)
		})
	}
}

func TestCreateProductRequiresToken(t *testing.T) {
	store := testutil.NewStore()
	w := perform(newRouter(store), http.MethodPost, "/products", validProduct, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, store.Products)
}

func TestAcceptedProductsPagination(t *testing.T) {
	store := testutil.NewStore()
	for i := range 13 {
		store.AddProduct(accepted(fmt.Sprintf("p%02d", i), fixedNow.Add(time.Duration(i)*time.Minute), "tools"))
	}
	pending := accepted("pending", fixedNow.Add(time.Hour), "tools")
	pending.Status = "Pending"
	store.AddProduct(pending)
	r := newRouter(store)

	tests := []struct {
		name      string
		query     string
		wantLen   int
		wantPages int64
		wantFirst string
	}{
		{"defaults", "", 6, 3, "p12"},
		{"second page", "?page=2", 6, 3, "p06"},
		{"last partial page", "?page=3&limit=5", 3, 3, "p02"},
		{"past the end", "?page=9", 0, 3, ""},
		{"limit capped", "?limit=1000", 13, 1, "p12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodGet, "/accepted/products"+tt.query, "", "")
			require.Equal(t, http.StatusOK, w.Code)

			page := decode[models.ProductPage](t, w)
			assert.Len(t, page.Products, tt.wantLen)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, page.Products[0].Name)
			}
			for _, p := range page.Products {
				assert.Equal(t, models.StatusAccepted, p.Status)
			}
		})
	}
}

func TestAcceptedProductsRejectsBadPaging(t *testing.T) {
	r := newRouter(testutil.NewStore())

	for _, query := range []string{
		"?page=abc",
		"?page=0",
		"?limit=-1",
		"?limit=2.5",
		"?page=9223372036854775807",
		"?page=92233720368547760&limit=100",
		"?page=99999999999999999999",
	} {
		t.Run(query, func(t *testing.T) {
			w := perform(r, http.MethodGet, "/accepted/products"+query, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAcceptedProductsLargestPage(t *testing.T) {
	store := testutil.NewStore()
	store.AddProduct(accepted("only", fixedNow))
	r := newRouter(store)

	for _, query := range []string{"?page=92233720368547759&limit=100", "?page=9223372036854775807&limit=1"} {
		t.Run(query, func(t *testing.T) {
			w := perform(r, http.MethodGet, "/accepted/products"+query, "", "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			page := decode[models.ProductPage](t, w)
			assert.Empty(t, page.Products)
			assert.Equal(t, int64(1), page.TotalPages)
		})
	}
}

func TestAcceptedProductsSearchMatchesTagSubstring(t *testing.T) {
	store := testutil.NewStore()
	store.AddProduct(accepted("ml", fixedNow, "Artificial-Intelligence"))
	store.AddProduct(accepted("notes", fixedNow, "writing"))
	r := newRouter(store)

	w := perform(r, http.MethodGet, "/accepted/products?search=intel", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[models.ProductPage](t, w)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "ml", page.Products[0].Name)
	assert.Equal(t, int64(1), page.TotalPages)
}

func TestFeaturedAndTrendingProducts(t *testing.T) {
	store := testutil.NewStore()
	for i := range 8 {
		p := accepted(fmt.Sprintf("f%d", i), fixedNow.Add(time.Duration(i)*time.Hour))
		p.Category = models.CategoryFeatured
		store.AddProduct(p)

		tp := accepted(fmt.Sprintf("t%d", i), fixedNow)
		tp.Category = models.CategoryTrending
		tp.Upvotes = i * 10
		store.AddProduct(tp)
	}
	r := newRouter(store)

	w := perform(r, http.MethodGet, "/featured/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	featured := decode[[]models.Product](t, w)
	require.Len(t, featured, 5)
	assert.Equal(t, "f7", featured[0].Name)

	w = perform(r, http.MethodGet, "/trending/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	trending := decode[[]models.Product](t, w)
	require.Len(t, trending, 7)
	assert.Equal(t, 70, trending[0].Upvotes)
	assert.Equal(t, 10, trending[6].Upvotes)
}

func TestGetProduct(t *testing.T) {
	store := testutil.NewStore()
	id := store.AddProduct(accepted("lumen", fixedNow))
	r := newRouter(store)

	w := perform(r, http.MethodGet, "/products/"+id.Hex(), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lumen", decode[models.Product](t, w).Name)

	w = perform(r, http.MethodGet, "/products/not-an-id", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/products/0123456789abcdef01234567", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductsByOwner(t *testing.T) {
	store := testutil.NewStore()
	mine := accepted("mine", fixedNow)
	mine.Owner.Email = "ada@example.com"
	theirs := accepted("theirs", fixedNow)
	theirs.Owner.Email = "bob@example.com"
	store.AddProduct(mine)
	store.AddProduct(theirs)
	r := newRouter(store)

	w := perform(r, http.MethodGet, "/my/products?email=ada@example.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]models.Product](t, w)
	require.Len(t, products, 1)
	assert.Equal(t, "mine", products[0].Name)

	w = perform(r, http.MethodGet, "/my/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 2)
}

func TestDeleteProduct(t *testing.T) {
	tests := []struct {
		name       string
		caller     string
		role       string
		wantStatus int
		wantLeft   int
	}{
		{"owner", "ada@example.com", "", http.StatusOK, 0},
		{"moderator", "mod@example.com", models.RoleModerator, http.StatusOK, 0},
		{"admin", "root@example.com", models.RoleAdmin, http.StatusOK, 0},
		{"stranger", "bob@example.com", "", http.StatusForbidden, 1},
		{"unknown user", "ghost@example.com", "-", http.StatusForbidden, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStore()
			if tt.role != "-" {
				store.AddUser(tt.caller, tt.role)
			}
			p := accepted("lumen", fixedNow)
			p.Owner.Email = "ada@example.com"
			id := store.AddProduct(p)

			w := perform(newRouter(store), http.MethodDelete, "/products/"+id.Hex(), "", testutil.Token(t, tt.caller))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Len(t, store.Products, tt.wantLeft)
			if tt.wantStatus == http.StatusOK {
				res := decode[models.DeleteResult](t, w)
				assert.Equal(t, int64(1), res.DeletedCount)
			}
		})
	}
}

func TestDeleteProductMissingOrMalformed(t *testing.T) {
	store := testutil.NewStore()
	r := newRouter(store)
	token := testutil.Token(t, "ada@example.com")

	w := perform(r, http.MethodDelete, "/products/0123456789abcdef01234567", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(r, http.MethodDelete, "/products/xyz", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreFailureIsServerError(t *testing.T) {
	store := testutil.NewStore()
	store.Err = errors.New("connection reset")
	r := newRouter(store)

	for _, path := range []string{"/products", "/featured/products", "/trending/products", "/accepted/products", "/reviews/abc"} {
		t.Run(path, func(t *testing.T) {
			w := perform(r, http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())
		})
	}
}
