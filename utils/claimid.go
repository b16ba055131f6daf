package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateClaimID produces a 12-digit numeric claim identifier: the last ten
// digits of the current unix-millisecond timestamp followed by two random
// digits. Callers must still check the policy-number uniqueness constraint
// before insert.
func GenerateClaimID() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(millis) > 10 {
		millis = millis[len(millis)-10:]
	}
	return fmt.Sprintf("%s%02d", millis, rand.Intn(100))
}

// ClaimFolderPath returns the object storage folder for a claim
func ClaimFolderPath(claimID string) string {
	return fmt.Sprintf("claims/%s", claimID)
}
