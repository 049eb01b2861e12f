// Package fitment parses free-text compatibility tags ("BMW E46 2001-2006",
// "BMW Universal") into structured descriptors and derives the tag sets used
// to match parts against vehicles.
package fitment

import (
	"regexp"
	"strconv"
	"strings"
)

// Descriptor is the structured form of one fitment tag. A descriptor is
// either universal, or carries a chassis model with optional year bounds,
// or is empty ("no match"), never universal and model-bearing at once.
type Descriptor struct {
	Model       string `json:"model,omitempty"`
	YearMin     *int   `json:"year_min,omitempty"`
	YearMax     *int   `json:"year_max,omitempty"`
	IsUniversal bool   `json:"is_universal"`
}

// Empty reports whether the descriptor matched nothing in the tag.
func (d Descriptor) Empty() bool {
	return !d.IsUniversal && d.Model == ""
}

// MatchesVehicle reports whether the descriptor fits a vehicle with the
// given chassis code and year. Universal descriptors fit everything; empty
// descriptors fit nothing. Year bounds are inclusive, and a descriptor
// without bounds fits every year. A zero year on the vehicle side means the
// year is unknown and only the model is checked.
func (d Descriptor) MatchesVehicle(chassis string, year int) bool {
	if d.IsUniversal {
		return true
	}
	if d.Model == "" || !strings.EqualFold(d.Model, chassis) {
		return false
	}
	if d.YearMin == nil || d.YearMax == nil || year == 0 {
		return true
	}
	return year >= *d.YearMin && year <= *d.YearMax
}

var (
	universalRe  = regexp.MustCompile(`(?i)\buniversal\b`)
	chassisRe    = regexp.MustCompile(`(?i)\b(E\d{2,3}|F\d{2,3}|G\d{2})\b`)
	yearRangeRe  = regexp.MustCompile(`(\d{4})\s*-\s*(\d{4})`)
	singleYearRe = regexp.MustCompile(`\b(\d{4})\b`)
	titleYearRe  = regexp.MustCompile(`^(\d{4})\b`)
	titleModelRe = regexp.MustCompile(`(?i)\b(M\d|[1-7]\d{2}[A-Za-z]{0,2}|X[1-7]|Z\d)\b`)
)

// ParseTag extracts a Descriptor from a free-text fitment tag. It never
// fails; malformed input degrades to the empty descriptor.
func ParseTag(tag string) Descriptor {
	tag = strings.TrimSpace(tag)

	if universalRe.MatchString(tag) {
		return Descriptor{IsUniversal: true}
	}

	var d Descriptor
	if m := chassisRe.FindStringSubmatch(tag); m != nil {
		d.Model = strings.ToUpper(m[1])
	}

	if m := yearRangeRe.FindStringSubmatch(tag); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		d.YearMin, d.YearMax = &lo, &hi
		return d
	}
	if m := singleYearRe.FindStringSubmatch(tag); m != nil {
		y, _ := strconv.Atoi(m[1])
		d.YearMin, d.YearMax = &y, &y
	}
	return d
}

// ExtractModels returns the distinct chassis codes named across tags,
// ignoring universal and empty descriptors. Order follows first appearance.
func ExtractModels(tags []string) []string {
	seen := make(map[string]struct{})
	models := make([]string, 0, len(tags))
	for _, tag := range tags {
		d := ParseTag(tag)
		if d.IsUniversal || d.Model == "" {
			continue
		}
		if _, ok := seen[d.Model]; ok {
			continue
		}
		seen[d.Model] = struct{}{}
		models = append(models, d.Model)
	}
	return models
}

// ExtractYearFromTitle pulls the model year off a listing title such as
// "2003 BMW E46 M3". Returns 0 when the title does not start with a year.
func ExtractYearFromTitle(title string) int {
	m := titleYearRe.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}

// ExtractModelFromTitle pulls the marketing model designation (M3, 335i, X5)
// out of a listing title. Returns "" when no known pattern appears.
func ExtractModelFromTitle(title string) string {
	m := titleModelRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// VehicleCompatibilityTags derives the tag combinations used to match a
// vehicle against the part catalog, most specific first. For
// "2013 BMW E92 M3" with chassis E92 it yields E92, M3, "E92 M3",
// "BMW M3", "BMW E92", year variants, and the generic "BMW".
func VehicleCompatibilityTags(chassis, listingTitle string) []string {
	chassis = strings.ToUpper(strings.TrimSpace(chassis))
	year := ExtractYearFromTitle(listingTitle)
	model := ExtractModelFromTitle(listingTitle)

	tags := []string{chassis}
	if model != "" {
		tags = append(tags, model, chassis+" "+model, "BMW "+model)
	}
	tags = append(tags, "BMW "+chassis)

	if year > 0 {
		ys := strconv.Itoa(year)
		tags = append(tags, ys+" "+chassis, ys+" BMW")
		if model != "" {
			tags = append(tags, ys+" "+model)
		}
	}

	return append(tags, "BMW")
}
