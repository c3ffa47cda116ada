package repository

import (
	bookingRepo "parkly/database/repository/booking"
	facilityRepo "parkly/database/repository/facility"
	spaceRepo "parkly/database/repository/space"
	tariffRepo "parkly/database/repository/tariff"
)

// Re-export the FacilityRepository interface and constructor.
type FacilityRepository = facilityRepo.FacilityRepository

var NewMongoFacilityRepo = facilityRepo.NewMongoFacilityRepo

// Re-export the SpaceRepository interface and constructor.
type SpaceRepository = spaceRepo.SpaceRepository

var NewMongoSpaceRepo = spaceRepo.NewMongoSpaceRepo

// Re-export the TariffRepository interface and constructor.
type TariffRepository = tariffRepo.TariffRepository

var NewMongoTariffRepo = tariffRepo.NewMongoTariffRepo

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo
