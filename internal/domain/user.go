package domain

import "time"

// Role values stored on User. Anything above RoleUser is treated as admin.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User is an account document with the cart and purchase history embedded.
type User struct {
	ID            string         `bson:"_id,omitempty" json:"_id"`
	Email         string         `bson:"email" json:"email"`
	PasswordHash  string         `bson:"password" json:"-"`
	Name          string         `bson:"name" json:"name"`
	Lastname      string         `bson:"lastname" json:"lastname"`
	Address       string         `bson:"address,omitempty" json:"address,omitempty"`
	Phone         string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Role          int            `bson:"role" json:"role"`
	Token         string         `bson:"token,omitempty" json:"-"`
	ResetToken    string         `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExp time.Time      `bson:"reset_token_exp,omitempty" json:"-"`
	Cart          []CartLine     `bson:"cart" json:"cart"`
	History       []HistoryEntry `bson:"history" json:"history"`
	CreatedAt     time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updatedAt"`
}

// CartLine references a product in a user's cart. At most one line exists
// per product id; adding the same product again bumps Quantity instead.
type CartLine struct {
	ProductID string    `bson:"product_id" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// HistoryEntry is a denormalized purchase snapshot appended at checkout.
// It is never mutated afterwards, so later product edits cannot corrupt it.
type HistoryEntry struct {
	PurchaseOrder  string    `bson:"porder" json:"porder"`
	DateOfPurchase time.Time `bson:"date_of_purchase" json:"dateOfPurchase"`
	Name           string    `bson:"name" json:"name"`
	ProductID      string    `bson:"product_id" json:"id"`
	Price          float64   `bson:"price" json:"price"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	PaymentID      string    `bson:"payment_id" json:"paymentId"`
}

// IsAdmin reports whether the user may use admin-gated endpoints.
func (u User) IsAdmin() bool {
	return u.Role != RoleUser
}
