package domain

// Shipping is one shipping option offered at checkout.
type Shipping struct {
	ID    string  `bson:"_id,omitempty" json:"_id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}
