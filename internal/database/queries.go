package database

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"producthunt_back_end/internal/models"
)

const (
	FeaturedLimit = 5
	TrendingLimit = 7

	DefaultPage  = 1
	DefaultLimit = 6
	MaxLimit     = 100
)

// AcceptedQuery décrit une page de GET /accepted/products.
type AcceptedQuery struct {
	Search string
	Page   int64
	Limit  int64
}

func (q AcceptedQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

func featuredQuery() (bson.M, *options.FindOptions) {
	return bson.M{"category": models.CategoryFeatured},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(FeaturedLimit)
}

func trendingQuery() (bson.M, *options.FindOptions) {
	return bson.M{"category": models.CategoryTrending},
		options.Find().SetSort(bson.D{{Key: "upvotes", Value: -1}}).SetLimit(TrendingLimit)
}

// acceptedFilter : le tag doit contenir la recherche, sans tenir compte de la casse.
// La recherche est échappée, c'est une sous-chaîne et pas une regex.
func acceptedFilter(search string) bson.M {
	filter := bson.M{"status": models.StatusAccepted}
	if search != "" {
		filter["tags"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
	}
	return filter
}

func acceptedOptions(q AcceptedQuery) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)
}

// ownerFilter : sans email, tous les produits.
func ownerFilter(email string) bson.M {
	if email == "" {
		return bson.M{}
	}
	return bson.M{"owner.email": email}
}

func activeCouponFilter(now primitive.DateTime) bson.M {
	return bson.M{"expiryDate": bson.M{"$gte": now}}
}

// TotalPages = ceil(total / limit).
func TotalPages(total, limit int64) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
