package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateReceiptID builds a globally unique deposit receipt identifier:
// DEP-{base36 millisecond timestamp}-{sequence, 2-digit}-{random}, upper-cased.
// The timestamp gives chronological ordering, the per-admission sequence makes
// the human-visible position obvious, and the random suffix breaks ties.
func GenerateReceiptID(sequenceNumber int, now time.Time) (string, error) {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	random, err := GenerateSecureRandomString(3)
	if err != nil {
		return "", fmt.Errorf("failed to generate receipt ID suffix: %w", err)
	}

	id := fmt.Sprintf("DEP-%s-%02d-%s", ts, sequenceNumber, random)
	return strings.ToUpper(id), nil
}
