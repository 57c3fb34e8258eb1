package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference generates a collision-resistant payment reference:
// millisecond timestamp plus a random suffix. The unique index on the
// intents collection backstops the generator.
func NewReference() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("GB-%d-%s", time.Now().UnixMilli(), suffix)
}
