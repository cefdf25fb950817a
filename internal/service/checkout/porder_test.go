package checkout

import (
	"strings"
	"testing"
	"time"
)

func TestPurchaseOrderIDFormat(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 42, 123e6, time.UTC)
	po := purchaseOrderID(now, "user-1")

	if !strings.HasPrefix(po, "PO-42123-") {
		t.Fatalf("expected prefix PO-42123-, got %q", po)
	}
	parts := strings.Split(po, "-")
	if len(parts) != 3 || len(parts[2]) != 8 {
		t.Fatalf("expected PO-<time>-<hash8>, got %q", po)
	}
}

func TestPurchaseOrderIDDiffersPerUser(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 42, 123e6, time.UTC)
	a := purchaseOrderID(now, "user-a")
	b := purchaseOrderID(now, "user-b")

	// Same millisecond, different users: the hash component must differ.
	if a == b {
		t.Fatalf("expected distinct ids for distinct users, both were %q", a)
	}
}

func TestPurchaseOrderIDSameUserSameMillisecondCollides(t *testing.T) {
	// Documented limitation, not a bug: time resolution is milliseconds and
	// the hash is deterministic per user, so these collide.
	now := time.Date(2024, 6, 1, 10, 30, 42, 123e6, time.UTC)
	a := purchaseOrderID(now, "user-a")
	b := purchaseOrderID(now, "user-a")

	if a != b {
		t.Fatalf("expected identical ids for the same user and millisecond, got %q and %q", a, b)
	}
}
