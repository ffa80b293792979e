package utils

import (
	"math/rand"
	"strconv"
)

const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// GenerateBookingReference creates a random 22-character reference for
// ticket bookings. Ambiguous characters (0/O, 1/l/I) are excluded.
func GenerateBookingReference() string {
	ref := make([]byte, 22)
	for i := range ref {
		ref[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return string(ref)
}
