package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User ne porte que les champs lus côté serveur ; le reste du document est libre.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// IsStaff : admin ou modérateur.
func (u *User) IsStaff() bool {
	return u.IsAdmin() || u.IsModerator()
}
