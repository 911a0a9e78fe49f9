package perform

import "strings"

// ValidatePortfolio checks an entity's holdings input. A violation is a
// ConfigurationError: the only failure class that aborts the entity (and
// only that entity).
func ValidatePortfolio(p Portfolio) error {
	if strings.TrimSpace(p.Entity) == "" {
		return configErrf(p.Entity, "entity has no name")
	}
	if len(p.Holdings) == 0 {
		return configErrf(p.Entity, "entity has no holdings")
	}
	for _, h := range p.Holdings {
		if strings.TrimSpace(h.Security) == "" {
			return configErrf(p.Entity, "holding has an empty security name")
		}
		if h.Quantity.IsNegative() {
			return configErrf(p.Entity, "holding %q has negative quantity %s", h.Security, h.Quantity)
		}
	}
	return nil
}
