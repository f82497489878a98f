package skills

// Domain represents a content domain a skill belongs to.
type Domain string

const (
	DomainArithmetic Domain = "arithmetic"
	DomainFractions  Domain = "fractions"
	DomainGeometry   Domain = "geometry"
	DomainReading    Domain = "reading"
	DomainWriting    Domain = "writing"
	DomainScience    Domain = "science"
)

// AllDomains returns all domains in display order.
func AllDomains() []Domain {
	return []Domain{
		DomainArithmetic,
		DomainFractions,
		DomainGeometry,
		DomainReading,
		DomainWriting,
		DomainScience,
	}
}

// DisplayName returns a human-readable name for a domain.
func DisplayName(d Domain) string {
	switch d {
	case DomainArithmetic:
		return "Arithmetic"
	case DomainFractions:
		return "Fractions"
	case DomainGeometry:
		return "Geometry"
	case DomainReading:
		return "Reading"
	case DomainWriting:
		return "Writing"
	case DomainScience:
		return "Science"
	default:
		return string(d)
	}
}
