package domain

import "time"

// Payment is one append-only ledger record per purchase order. It is never
// updated after creation.
type Payment struct {
	ID        string                 `bson:"_id,omitempty" json:"_id"`
	User      PaymentUser            `bson:"user" json:"user"`
	Data      map[string]interface{} `bson:"data" json:"data"`
	Product   []PaymentLine          `bson:"product" json:"product"`
	CreatedAt time.Time              `bson:"created_at" json:"createdAt"`
}

// PaymentUser is the buyer snapshot embedded in a Payment.
type PaymentUser struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Lastname string `bson:"lastname" json:"lastname"`
	Email    string `bson:"email" json:"email"`
}

// PaymentLine is one purchased line item inside a Payment.
type PaymentLine struct {
	ProductID string `bson:"id" json:"id"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Checkout intent statuses. The intent record is written before any other
// checkout mutation so a crash mid-sequence leaves a discoverable trail.
const (
	IntentPending         = "pending"
	IntentHistoryRecorded = "history_recorded"
	IntentPaymentRecorded = "payment_recorded"
	IntentCompleted       = "completed"
	IntentFailed          = "failed"
)

// CheckoutIntent tracks one checkout attempt through its steps. There is no
// automatic compensation; failed intents are left for manual reconciliation.
type CheckoutIntent struct {
	ID         string    `bson:"_id" json:"_id"`
	UserID     string    `bson:"user_id" json:"userId"`
	Status     string    `bson:"status" json:"status"`
	FailedStep string    `bson:"failed_step,omitempty" json:"failedStep,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
