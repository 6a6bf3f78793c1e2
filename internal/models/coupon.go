package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCouponCode = "N/A"

type Coupon struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code       string             `bson:"code" json:"code"`
	Discount   float64            `bson:"discount" json:"discount"`
	ExpiryDate time.Time          `bson:"expiryDate" json:"expiryDate"`
}

// CreateCouponRequest : discount peut arriver en nombre ou en chaîne,
// expiryDate en chaîne de date ou en timestamp millisecondes.
type CreateCouponRequest struct {
	Code       string `json:"code"`
	Discount   any    `json:"discount"`
	ExpiryDate any    `json:"expiryDate"`
}
