package domain

import "time"

// Product is a catalog entry. Sold is a cumulative units-purchased counter
// and is only ever moved by atomic increments, never set from client input.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"_id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Publish     bool      `bson:"publish" json:"publish"`
	Images      []string  `bson:"images" json:"images"`
	Sold        int64     `bson:"sold" json:"sold"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
