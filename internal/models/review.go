package models

// Champ de référence vers le produit ; aucune intégrité référentielle n'est vérifiée.
const ReviewProductField = "productId"
