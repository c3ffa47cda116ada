package catalog

import (
	"time"

	"parkly/database/repository"
	"parkly/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultService implements Service.
type DefaultService struct {
	FacilityRepo repository.FacilityRepository
	SpaceRepo    repository.SpaceRepository
	TariffRepo   repository.TariffRepository
	Logger       *zap.Logger
}

// CreateFacility validates and stores a new facility. A new facility
// starts with all of its capacity available.
func (s *DefaultService) CreateFacility(facility *models.Facility) error {
	if facility.Name == "" {
		return NewValidationError("facility name is required")
	}
	if !facility.Location.Valid() {
		return NewValidationError("facility location must be a valid lon/lat point")
	}
	if facility.CapacityTotal < 1 {
		return NewValidationError("facility must have at least one space")
	}
	if facility.Status == "" {
		facility.Status = models.FacilityOpen
	}
	switch facility.Status {
	case models.FacilityOpen, models.FacilityClosed, models.FacilityFull, models.FacilityMaintenance:
	default:
		return NewValidationError("unknown facility status %q", facility.Status)
	}
	if facility.ID == "" {
		facility.ID = uuid.New().String()
	}
	facility.Location.Type = "Point"
	facility.CapacityAvailable = facility.CapacityTotal

	if err := s.FacilityRepo.Create(facility); err != nil {
		return err
	}
	s.Logger.Info("facility created", zap.String("facility", facility.ID), zap.String("name", facility.Name))
	return nil
}

// GetFacility retrieves a facility by id.
func (s *DefaultService) GetFacility(id string) (*models.Facility, error) {
	facility, err := s.FacilityRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, &NotFoundError{Resource: "facility", ID: id}
	}
	return facility, nil
}

// ListFacilities retrieves all facilities.
func (s *DefaultService) ListFacilities() ([]models.Facility, error) {
	return s.FacilityRepo.GetAll()
}

// ImportFacilities parses a semicolon-delimited dump and bulk-inserts
// the facilities it describes. Returns the number imported.
func (s *DefaultService) ImportFacilities(text string) (int, error) {
	facilities, err := ParseFacilityDump(text)
	if err != nil {
		return 0, err
	}
	for i := range facilities {
		facilities[i].ID = uuid.New().String()
	}
	if err := s.FacilityRepo.CreateMany(facilities); err != nil {
		return 0, err
	}
	s.Logger.Info("facilities imported", zap.Int("count", len(facilities)))
	return len(facilities), nil
}

// NearbyFacilities exposes the candidate generator for read-only queries.
func (s *DefaultService) NearbyFacilities(point models.GeoPoint, radiusKm float64, spaceType string, limit int) ([]models.FacilityCandidate, error) {
	if !point.Valid() {
		return nil, NewValidationError("query point must be a valid lon/lat pair")
	}
	if !models.ValidSpaceType(spaceType) {
		return nil, NewValidationError("unknown space type %q", spaceType)
	}
	if radiusKm <= 0 {
		radiusKm = 5
	}
	if limit <= 0 {
		limit = 20
	}
	return s.FacilityRepo.NearestAvailable(point, radiusKm*1000, spaceType, limit)
}

// CreateSpace validates and stores a new space. The facility reference
// is fixed for the space's lifetime.
func (s *DefaultService) CreateSpace(space *models.Space) error {
	if space.Label == "" {
		return NewValidationError("space label is required")
	}
	if !models.ValidSpaceType(space.Type) {
		return NewValidationError("unknown space type %q", space.Type)
	}
	facility, err := s.FacilityRepo.GetByID(space.FacilityID)
	if err != nil {
		return err
	}
	if facility == nil {
		return &NotFoundError{Resource: "facility", ID: space.FacilityID}
	}
	if space.ID == "" {
		space.ID = uuid.New().String()
	}
	if space.Status == "" {
		space.Status = models.SpaceFree
	}
	switch space.Status {
	case models.SpaceFree, models.SpaceReserved, models.SpaceOccupied, models.SpaceMaintenance:
	default:
		return NewValidationError("unknown space status %q", space.Status)
	}
	return s.SpaceRepo.Create(space)
}

// ListSpaces retrieves a facility's spaces.
func (s *DefaultService) ListSpaces(facilityID string) ([]models.Space, error) {
	return s.SpaceRepo.ListByFacility(facilityID)
}

// CreateTariff validates and stores a new tariff record. The rate
// consistency rules follow the pricing model: a daily rate cannot
// undercut the hourly rate, a monthly rate cannot undercut the daily
// one, and a reduced rate must actually reduce.
func (s *DefaultService) CreateTariff(record *models.TariffRecord) error {
	if !models.ValidSpaceType(record.SpaceType) {
		return NewValidationError("unknown space type %q", record.SpaceType)
	}
	if record.HourlyRate < 0 {
		return NewValidationError("hourly rate cannot be negative")
	}
	if record.DailyRate != nil {
		if *record.DailyRate < 0 {
			return NewValidationError("daily rate cannot be negative")
		}
		if *record.DailyRate < record.HourlyRate {
			return NewValidationError("daily rate must be at least the hourly rate")
		}
	}
	if record.MonthlyRate != nil {
		if *record.MonthlyRate < 0 {
			return NewValidationError("monthly rate cannot be negative")
		}
		if record.DailyRate != nil && *record.MonthlyRate < *record.DailyRate {
			return NewValidationError("monthly rate must be consistent with the daily rate")
		}
	}
	if record.ReducedRate != nil {
		if *record.ReducedRate < 0 {
			return NewValidationError("reduced rate cannot be negative")
		}
		if *record.ReducedRate >= record.HourlyRate {
			return NewValidationError("reduced rate must be below the hourly rate")
		}
	}
	if record.EffectiveFrom.IsZero() {
		record.EffectiveFrom = time.Now()
	}
	if record.EffectiveTo != nil && !record.EffectiveTo.After(record.EffectiveFrom) {
		return NewValidationError("effectiveTo must be after effectiveFrom")
	}

	facility, err := s.FacilityRepo.GetByID(record.FacilityID)
	if err != nil {
		return err
	}
	if facility == nil {
		return &NotFoundError{Resource: "facility", ID: record.FacilityID}
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := s.TariffRepo.Create(record); err != nil {
		return err
	}
	s.Logger.Info("tariff created",
		zap.String("tariff", record.ID),
		zap.String("facility", record.FacilityID),
		zap.String("spaceType", record.SpaceType))
	return nil
}

// ListTariffs retrieves tariff records with optional filters.
func (s *DefaultService) ListTariffs(facilityID, spaceType string, activeOnly bool) ([]models.TariffRecord, error) {
	return s.TariffRepo.List(facilityID, spaceType, activeOnly)
}

// GetTariff retrieves one tariff record.
func (s *DefaultService) GetTariff(id string) (*models.TariffRecord, error) {
	record, err := s.TariffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &NotFoundError{Resource: "tariff", ID: id}
	}
	return record, nil
}

// ResolveTariff exposes point-in-time resolution for admin inspection.
func (s *DefaultService) ResolveTariff(facilityID, spaceType string, asOf time.Time) (*models.TariffRecord, error) {
	record, err := s.TariffRepo.Resolve(facilityID, spaceType, asOf)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &NotFoundError{Resource: "tariff for facility", ID: facilityID + "/" + spaceType}
	}
	return record, nil
}
