package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"producthunt_back_end/internal/models"
)

const (
	ProductsCollection = "products"
	ReviewsCollection  = "reviews"
	PaymentsCollection = "payments"
	UsersCollection    = "users"
	CouponsCollection  = "coupons"
)

// Store regroupe les cinq collections. Une seule instance est partagée par tous les handlers.
type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	reviews  *mongo.Collection
	payments *mongo.Collection
	users    *mongo.Collection
	coupons  *mongo.Collection
}

func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:   client,
		products: db.Collection(ProductsCollection),
		reviews:  db.Collection(ReviewsCollection),
		payments: db.Collection(PaymentsCollection),
		users:    db.Collection(UsersCollection),
		coupons:  db.Collection(CouponsCollection),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected id type %T", coll.Name(), res.InsertedID)
	}
	return id, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (int64, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// --- Produits ---

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.products, bson.M{})
}

func (s *Store) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	filter, opts := featuredQuery()
	return findAll[models.Product](ctx, s.products, filter, opts)
}

func (s *Store) TrendingProducts(ctx context.Context) ([]models.Product, error) {
	filter, opts := trendingQuery()
	return findAll[models.Product](ctx, s.products, filter, opts)
}

// AcceptedProducts retourne la page demandée et le nombre total de produits correspondants.
func (s *Store) AcceptedProducts(ctx context.Context, q AcceptedQuery) ([]models.Product, int64, error) {
	filter := acceptedFilter(q.Search)
	products, err := findAll[models.Product](ctx, s.products, filter, acceptedOptions(q))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

func (s *Store) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (s *Store) InsertProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error) {
	return insert(ctx, s.products, p)
}

func (s *Store) ProductsByOwner(ctx context.Context, email string) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.products, ownerFilter(email))
}

// DeleteProduct ne supprime pas les avis associés.
func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteByID(ctx, s.products, id)
}

// --- Avis ---

func (s *Store) ReviewsForProduct(ctx context.Context, productID string) ([]models.Document, error) {
	return findAll[models.Document](ctx, s.reviews, bson.M{models.ReviewProductField: productID})
}

func (s *Store) InsertReview(ctx context.Context, review models.Document) (primitive.ObjectID, error) {
	return insert(ctx, s.reviews, models.Sanitize(review))
}

// --- Coupons ---

func (s *Store) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return findAll[models.Coupon](ctx, s.coupons, bson.M{})
}

func (s *Store) ActiveCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	return findAll[models.Coupon](ctx, s.coupons, activeCouponFilter(primitive.NewDateTimeFromTime(now)))
}

func (s *Store) InsertCoupon(ctx context.Context, c models.Coupon) (primitive.ObjectID, error) {
	return insert(ctx, s.coupons, c)
}

func (s *Store) DeleteCoupon(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteByID(ctx, s.coupons, id)
}

// --- Paiements ---

func (s *Store) InsertPayment(ctx context.Context, payment models.Document) (primitive.ObjectID, error) {
	return insert(ctx, s.payments, models.Sanitize(payment))
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Document, error) {
	return findAll[models.Document](ctx, s.payments, bson.M{})
}

// --- Utilisateurs ---

func (s *Store) ListUsers(ctx context.Context) ([]models.Document, error) {
	return findAll[models.Document](ctx, s.users, bson.M{})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// InsertUser n'insère que si l'email est inconnu ; inserted=false sinon.
// L'unicité est vérifiée ici, pas par un index.
func (s *Store) InsertUser(ctx context.Context, user models.Document) (id primitive.ObjectID, inserted bool, err error) {
	email, _ := user["email"].(string)
	_, err = s.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return primitive.NilObjectID, false, nil
	case !errors.Is(err, ErrNotFound):
		return primitive.NilObjectID, false, err
	}
	id, err = insert(ctx, s.users, models.Sanitize(user))
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return id, true, nil
}

func (s *Store) SetUserRole(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update user role: %w", err)
	}
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

// --- Statistiques ---

// Stats utilise les comptes estimés (métadonnées de collection), pas un scan.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	var err error
	if stats.Products, err = s.products.EstimatedDocumentCount(ctx); err != nil {
		return stats, fmt.Errorf("count products: %w", err)
	}
	if stats.Users, err = s.users.EstimatedDocumentCount(ctx); err != nil {
		return stats, fmt.Errorf("count users: %w", err)
	}
	if stats.Reviews, err = s.reviews.EstimatedDocumentCount(ctx); err != nil {
		return stats, fmt.Errorf("count reviews: %w", err)
	}
	return stats, nil
}
