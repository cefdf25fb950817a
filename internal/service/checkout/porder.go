package checkout

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// purchaseOrderID builds the purchase order identifier from the time of day
// and a per-user content hash: PO-<seconds><milliseconds>-<hash8>.
//
// Known limitation: the time component has millisecond resolution and the
// hash is deterministic per user, so two checkouts by the same user within
// the same millisecond produce the same id. Different users always differ.
func purchaseOrderID(now time.Time, userID string) string {
	sum := sha1.Sum([]byte(userID))
	hash8 := hex.EncodeToString(sum[:])[:8]
	return fmt.Sprintf("PO-%d%d-%s", now.Second(), now.Nanosecond()/int(time.Millisecond), hash8)
}
