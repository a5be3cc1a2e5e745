package enums

import "fmt"

// Entity identifies the subject a metric payload describes.
type Entity string

const (
	EntityMerchant   Entity = "merchant"
	EntityCompetitor Entity = "competitor"
)

var validEntities = []Entity{
	EntityMerchant,
	EntityCompetitor,
}

// IsValid reports whether the value matches the canonical entity enum.
func (e Entity) IsValid() bool {
	for _, candidate := range validEntities {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntity converts the raw string to Entity.
func ParseEntity(value string) (Entity, error) {
	for _, candidate := range validEntities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity %q", value)
}
