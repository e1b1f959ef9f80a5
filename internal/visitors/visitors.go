// Package visitors handles client-generated visitor identifiers.
//
// The tracker script generates a random identifier once per browser and
// persists it in localStorage; the server only validates and aliases it.
package visitors

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// MaxIDLength caps stored visitor identifiers. The tracker generates ids
// well under this, so anything longer is a hand-crafted request.
const MaxIDLength = 64

// InvalidIDError is returned when a visitor identifier fails validation.
type InvalidIDError struct {
	Reason string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid visitor id: %s", e.Reason)
}

// NormalizeID trims and validates a client-supplied visitor identifier.
func NormalizeID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", &InvalidIDError{Reason: "empty"}
	}
	if len(id) > MaxIDLength {
		return "", &InvalidIDError{Reason: fmt.Sprintf("longer than %d characters", MaxIDLength)}
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return "", &InvalidIDError{Reason: "contains non-printable or non-ASCII characters"}
		}
	}
	return id, nil
}

var aliasAdjectives = []string{
	"Curious", "Happy", "Clever", "Wise", "Playful", "Brave", "Swift", "Gentle", "Smart", "Busy",
	"Bright", "Cheerful", "Creative", "Elegant", "Friendly", "Peaceful", "Bold", "Nimble", "Quiet", "Daring",
	"Radiant", "Merry", "Inventive", "Graceful", "Kind", "Calm", "Fearless", "Quick", "Serene", "Lively",
}

var aliasAnimals = []string{
	"Panda", "Fox", "Owl", "Otter", "Lion", "Eagle", "Deer", "Raven", "Beaver", "Koala",
	"Sloth", "Hamster", "Cat", "Bear", "Penguin", "Kangaroo", "Parrot", "Giraffe", "Duck", "Raccoon",
	"Dolphin", "Whale", "Turtle", "Octopus", "Falcon", "Hawk", "Swan", "Crane", "Heron", "Finch",
}

// Alias returns a stable anonymized display name for a visitor identifier.
func Alias(visitorID string) string {
	h := fnv.New32a()
	h.Write([]byte(visitorID))
	index := int(h.Sum32())

	adjIndex := index % len(aliasAdjectives)
	animalIndex := (index / len(aliasAdjectives)) % len(aliasAnimals)

	return aliasAdjectives[adjIndex] + " " + aliasAnimals[animalIndex]
}
