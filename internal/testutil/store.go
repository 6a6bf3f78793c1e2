// Package testutil fournit des doublures en mémoire pour les tests des handlers et du routeur.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"producthunt_back_end/internal/database"
	"producthunt_back_end/internal/models"
)

// Store reproduit en mémoire la sémantique de database.Store.
// Err, si non nil, est retournée par chaque opération.
type Store struct {
	mu       sync.Mutex
	Products []models.Product
	Reviews  []models.Document
	Payments []models.Document
	Users    []models.Document
	Coupons  []models.Coupon
	Err      error
}

func NewStore() *Store {
	return &Store{}
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	copy(out, in)
	return out
}

func (s *Store) filterProducts(keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range s.Products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// --- Produits ---

func (s *Store) ListProducts(context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return cloneProducts(s.Products), nil
}

func (s *Store) FeaturedProducts(context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.filterProducts(func(p models.Product) bool { return p.Category == models.CategoryFeatured })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return head(out, database.FeaturedLimit), nil
}

func (s *Store) TrendingProducts(context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.filterProducts(func(p models.Product) bool { return p.Category == models.CategoryTrending })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Upvotes > out[j].Upvotes })
	return head(out, database.TrendingLimit), nil
}

func (s *Store) AcceptedProducts(_ context.Context, q database.AcceptedQuery) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	search := strings.ToLower(q.Search)
	matched := s.filterProducts(func(p models.Product) bool {
		if p.Status != models.StatusAccepted {
			return false
		}
		if search == "" {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), search) {
				return true
			}
		}
		return false
	})
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := min(q.Skip(), total)
	end := min(start+q.Limit, total)
	return matched[start:end], total, nil
}

func (s *Store) FindProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Store) InsertProduct(_ context.Context, p models.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return primitive.NilObjectID, s.Err
	}
	p.ID = primitive.NewObjectID()
	s.Products = append(s.Products, p)
	return p.ID, nil
}

func (s *Store) ProductsByOwner(_ context.Context, email string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.filterProducts(func(p models.Product) bool { return email == "" || p.Owner.Email == email }), nil
}

func (s *Store) DeleteProduct(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for i, p := range s.Products {
		if p.ID == id {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- Avis ---

func (s *Store) ReviewsForProduct(_ context.Context, productID string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Document, 0)
	for _, r := range s.Reviews {
		if r[models.ReviewProductField] == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) InsertReview(_ context.Context, review models.Document) (primitive.ObjectID, error) {
	return s.insertDoc(&s.Reviews, review)
}

func (s *Store) insertDoc(coll *[]models.Document, doc models.Document) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return primitive.NilObjectID, s.Err
	}
	stored := models.Sanitize(doc)
	id := primitive.NewObjectID()
	stored["_id"] = id
	*coll = append(*coll, stored)
	return id, nil
}

// --- Coupons ---

func (s *Store) ListCoupons(context.Context) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Coupon, len(s.Coupons))
	copy(out, s.Coupons)
	return out, nil
}

func (s *Store) ActiveCoupons(_ context.Context, now time.Time) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Coupon, 0)
	for _, c := range s.Coupons {
		if !c.ExpiryDate.Before(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) InsertCoupon(_ context.Context, c models.Coupon) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return primitive.NilObjectID, s.Err
	}
	c.ID = primitive.NewObjectID()
	s.Coupons = append(s.Coupons, c)
	return c.ID, nil
}

func (s *Store) DeleteCoupon(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for i, c := range s.Coupons {
		if c.ID == id {
			s.Coupons = append(s.Coupons[:i], s.Coupons[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- Paiements ---

func (s *Store) InsertPayment(_ context.Context, payment models.Document) (primitive.ObjectID, error) {
	return s.insertDoc(&s.Payments, payment)
}

func (s *Store) ListPayments(context.Context) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append(make([]models.Document, 0, len(s.Payments)), s.Payments...), nil
}

// --- Utilisateurs ---

func (s *Store) ListUsers(context.Context) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append(make([]models.Document, 0, len(s.Users)), s.Users...), nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, doc := range s.Users {
		if doc["email"] == email {
			return toUser(doc), nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Store) InsertUser(ctx context.Context, user models.Document) (primitive.ObjectID, bool, error) {
	email, _ := user["email"].(string)
	_, err := s.FindUserByEmail(ctx, email)
	if err == nil {
		return primitive.NilObjectID, false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return primitive.NilObjectID, false, err
	}
	id, err := s.insertDoc(&s.Users, user)
	return id, err == nil, err
}

func (s *Store) SetUserRole(_ context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.UpdateResult{}, s.Err
	}
	res := models.UpdateResult{Acknowledged: true}
	for _, doc := range s.Users {
		if doc["_id"] == id {
			res.MatchedCount = 1
			if doc["role"] != role {
				doc["role"] = role
				res.ModifiedCount = 1
			}
			break
		}
	}
	return res, nil
}

// --- Statistiques ---

func (s *Store) Stats(context.Context) (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Stats{}, s.Err
	}
	return models.Stats{
		Products: int64(len(s.Products)),
		Users:    int64(len(s.Users)),
		Reviews:  int64(len(s.Reviews)),
	}, nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// --- Helpers de test ---

// AddUser insère directement un utilisateur et retourne son identifiant.
func (s *Store) AddUser(email, role string) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	doc := models.Document{"_id": id, "email": email}
	if role != "" {
		doc["role"] = role
	}
	s.Users = append(s.Users, doc)
	return id
}

// AddProduct insère directement un produit (ID généré si absent).
func (s *Store) AddProduct(p models.Product) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.Products = append(s.Products, p)
	return p.ID
}

func (s *Store) AddCoupon(c models.Coupon) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.Coupons = append(s.Coupons, c)
	return c.ID
}

func (s *Store) UserRole(id primitive.ObjectID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.Users {
		if doc["_id"] == id {
			role, _ := doc["role"].(string)
			return role
		}
	}
	return ""
}

func toUser(doc models.Document) *models.User {
	u := &models.User{}
	u.ID, _ = doc["_id"].(primitive.ObjectID)
	u.Email, _ = doc["email"].(string)
	u.Name, _ = doc["name"].(string)
	u.Role, _ = doc["role"].(string)
	return u
}

func head(in []models.Product, n int) []models.Product {
	if len(in) > n {
		return in[:n]
	}
	return in
}
