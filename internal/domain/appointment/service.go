package appointment

import (
	"slices"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

const (
	ServiceHairCut     = "Hair Cut"
	ServiceShave       = "Shave"
	ServiceHairColor   = "Hair Color"
	ServiceBeardTrim   = "Beard Trim"
	ServiceFullService = "Full Service"
)

var services = []string{
	ServiceHairCut,
	ServiceShave,
	ServiceHairColor,
	ServiceBeardTrim,
	ServiceFullService,
}

// ParseService defaults an empty value to Hair Cut.
func ParseService(s string) (string, error) {
	if s == "" {
		return ServiceHairCut, nil
	}
	if !slices.Contains(services, s) {
		return "", httperr.Validation("invalid_service",
			"service must be one of Hair Cut, Shave, Hair Color, Beard Trim, Full Service")
	}
	return s, nil
}
