package models

import "go.mongodb.org/mongo-driver/bson"

// Document est un enregistrement stocké tel quel (avis, paiements, utilisateurs).
type Document = bson.M

// Sanitize retire l'_id fourni par le client : l'identifiant reste celui attribué par la base.
func Sanitize(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
