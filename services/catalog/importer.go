package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"parkly/models"
)

// Some upstream dumps drop the separator before an uppercase run
// ("Central.OPEN" instead of "Central;OPEN"); repair it before splitting.
var missingSeparator = regexp.MustCompile(`\.([A-Z]+)`)

// ParseFacilityDump parses a facility-per-line dump of the form
//
//	name;status;capacity;longitude;latitude
//
// Blank lines are skipped; any malformed line aborts the import.
func ParseFacilityDump(text string) ([]models.Facility, error) {
	var facilities []models.Facility

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sanitized := missingSeparator.ReplaceAllString(line, ";$1")
		fields := strings.Split(sanitized, ";")
		if len(fields) != 5 {
			return nil, NewValidationError("invalid line %q: expected 5 fields, got %d", line, len(fields))
		}

		name := strings.TrimSpace(fields[0])
		status := normalizeStatus(strings.TrimSpace(fields[1]))
		capacity, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, NewValidationError("invalid capacity in line %q", line)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil {
			return nil, NewValidationError("invalid longitude in line %q", line)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if err != nil {
			return nil, NewValidationError("invalid latitude in line %q", line)
		}

		if name == "" || status == "" {
			return nil, NewValidationError("invalid line %q: name and status are required", line)
		}
		if capacity < 1 {
			return nil, NewValidationError("invalid line %q: capacity must be positive", line)
		}
		point := models.NewGeoPoint(lon, lat)
		if !point.Valid() {
			return nil, NewValidationError("invalid coordinates in line %q", line)
		}

		facilities = append(facilities, models.Facility{
			Name:              name,
			Status:            status,
			CapacityTotal:     capacity,
			CapacityAvailable: capacity,
			Location:          point,
		})
	}

	return facilities, nil
}

// normalizeStatus maps dump statuses (upper-cased in legacy exports)
// onto the canonical facility statuses.
func normalizeStatus(status string) string {
	switch strings.ToLower(status) {
	case "open", "ouvert":
		return models.FacilityOpen
	case "closed", "ferme":
		return models.FacilityClosed
	case "full", "complet":
		return models.FacilityFull
	case "maintenance":
		return models.FacilityMaintenance
	default:
		return ""
	}
}
