package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusAccepted = "Accepted"

	CategoryFeatured = "featured"
	CategoryTrending = "trending"
	CategoryNew      = "new"
)

type Owner struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Image string `bson:"image" json:"image"`
}

// Product : status et category sont du texte libre, seules des comparaisons littérales sont faites.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Image        string             `bson:"image" json:"image"`
	Description  string             `bson:"description" json:"description"`
	Tags         []string           `bson:"tags" json:"tags"`
	ExternalLink string             `bson:"external_link" json:"external_link"`
	Upvotes      int                `bson:"upvotes" json:"upvotes"`
	Owner        Owner              `bson:"owner" json:"owner"`
	Status       string             `bson:"status" json:"status"`
	Category     string             `bson:"category" json:"category"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type OwnerInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Image string `json:"image" binding:"required"`
}

// CreateProductRequest est le schéma accepté par POST /products.
type CreateProductRequest struct {
	Name         string     `json:"name" binding:"required"`
	Image        string     `json:"image" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Tags         []string   `json:"tags"`
	ExternalLink string     `json:"external_link"`
	Owner        OwnerInput `json:"owner"`
}

// NewProduct applique les valeurs imposées par le serveur.
func (r CreateProductRequest) NewProduct(now time.Time) Product {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return Product{
		Name:         r.Name,
		Image:        r.Image,
		Description:  r.Description,
		Tags:         tags,
		ExternalLink: r.ExternalLink,
		Upvotes:      0,
		Owner:        Owner(r.Owner),
		Status:       StatusAccepted,
		Category:     CategoryNew,
		CreatedAt:    now.UTC(),
	}
}

type ProductPage struct {
	Products   []Product `json:"products"`
	TotalPages int64     `json:"totalPages"`
}
