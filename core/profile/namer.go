package profile

import (
	"fmt"

	"github.com/kilianp07/evload/core/model"
)

// Namer maps a profile family and day type to a resource name.
type Namer interface {
	FileName(key model.ProfileFamilyKey, day model.DayType) (string, error)
}

// StandardNamer builds chg{behavior}_dow{day}_flex{flexibility}.csv.
type StandardNamer struct{}

// FileName returns the deterministic file name for the key and day.
func (StandardNamer) FileName(key model.ProfileFamilyKey, day model.DayType) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	if day < model.Weekday || day > model.Sunday {
		return "", fmt.Errorf("%w: day type code %d", model.ErrConfiguration, int(day))
	}
	return fmt.Sprintf("chg%d_dow%d_flex%d.csv", key.Behavior.Code(), day.Code(), key.Flexibility.Code()), nil
}

// VariantNamer serves a site-specific profile family whose files do not
// follow the standard naming scheme. The family key is ignored.
type VariantNamer struct {
	Name  string
	Files model.ByDay[string]
}

// FileName returns the configured file for day.
func (v VariantNamer) FileName(_ model.ProfileFamilyKey, day model.DayType) (string, error) {
	if day < model.Weekday || day > model.Sunday {
		return "", fmt.Errorf("%w: day type code %d", model.ErrConfiguration, int(day))
	}
	name := v.Files.Get(day)
	if name == "" {
		return "", fmt.Errorf("%w: variant %s has no %s file", model.ErrConfiguration, v.Name, day)
	}
	return name, nil
}
