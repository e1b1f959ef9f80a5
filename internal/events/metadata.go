package events

import (
	"encoding/json"
	"strconv"
)

// Metadata is the typed payload attached to an event. Each event type has
// exactly one legal shape; parsing never produces an untyped map.
type Metadata interface {
	metadata()
}

// ProjectViewMetadata accompanies projectView events.
type ProjectViewMetadata struct {
	ProjectID uint
}

// SkillViewMetadata accompanies skillView events.
type SkillViewMetadata struct {
	SkillID uint
}

// EmptyMetadata is the payload for event types that carry no metadata.
type EmptyMetadata struct{}

func (ProjectViewMetadata) metadata() {}
func (SkillViewMetadata) metadata()   {}
func (EmptyMetadata) metadata()       {}

// ParseMetadata interprets the raw metadata JSON for the given event type.
// View events require a positive id; trackers may send it either as a JSON
// number or a numeric string. Other event types ignore the payload entirely
// (it is still stored verbatim on the row).
func ParseMetadata(eventType EventType, raw json.RawMessage) (Metadata, error) {
	switch eventType {
	case EventTypeProjectView:
		id, err := extractID(raw, "projectId")
		if err != nil {
			return nil, err
		}
		return ProjectViewMetadata{ProjectID: id}, nil
	case EventTypeSkillView:
		id, err := extractID(raw, "skillId")
		if err != nil {
			return nil, err
		}
		return SkillViewMetadata{SkillID: id}, nil
	default:
		return EmptyMetadata{}, nil
	}
}

func extractID(raw json.RawMessage, key string) (uint, error) {
	if len(raw) == 0 {
		return 0, &ValidationError{Field: "metadata", Reason: key + " is required"}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, &ValidationError{Field: "metadata", Reason: "must be a JSON object"}
	}

	value, ok := payload[key]
	if !ok {
		return 0, &ValidationError{Field: "metadata", Reason: key + " is required"}
	}

	// Accept both a JSON number and a numeric string
	var asNumber int64
	if err := json.Unmarshal(value, &asNumber); err != nil {
		var asString string
		if err := json.Unmarshal(value, &asString); err != nil {
			return 0, &ValidationError{Field: "metadata", Reason: key + " must be a number"}
		}
		asNumber, err = strconv.ParseInt(asString, 10, 64)
		if err != nil {
			return 0, &ValidationError{Field: "metadata", Reason: key + " must be a number"}
		}
	}

	if asNumber <= 0 {
		return 0, &ValidationError{Field: "metadata", Reason: key + " must be positive"}
	}
	return uint(asNumber), nil
}
