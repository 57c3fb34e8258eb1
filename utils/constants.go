// File: utils/constants.go
package utils

import "time"

// ReconcileLockTTL caps how long a single reconciliation may hold the
// per-reference lock.
const ReconcileLockTTL = 30 * time.Second

// ReconcileLockRetries is how many times a contending reconciler re-attempts
// the lock before falling back to the stored intent status.
const ReconcileLockRetries = 3

// ReconcileLockBackoff is the delay between lock attempts.
const ReconcileLockBackoff = 150 * time.Millisecond
