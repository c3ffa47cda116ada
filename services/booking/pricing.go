package booking

import (
	"math"
	"time"

	"parkly/config"
	"parkly/models"
)

// Billing units per booking type. A month is billed as 30 days.
const (
	hourUnit  = time.Hour
	dayUnit   = 24 * time.Hour
	monthUnit = 30 * dayUnit
)

// Fallback minimum durations, used when the corresponding config knob
// is unset. The constants differ across historical variants of the
// business rules; the config layer is the place to override them.
const (
	defaultMinHourly  = 15 * time.Minute
	defaultMinDaily   = time.Hour
	defaultMinMonthly = 24 * time.Hour
)

// BillingUnit returns the unit duration for a booking type.
func BillingUnit(bookingType string) time.Duration {
	switch bookingType {
	case models.BookingDaily:
		return dayUnit
	case models.BookingMonthly:
		return monthUnit
	default:
		return hourUnit
	}
}

// MinimumDuration returns the shortest admissible window for a booking type.
func MinimumDuration(bookingType string) time.Duration {
	fromConfig := func(minutes int, fallback time.Duration) time.Duration {
		if minutes <= 0 {
			return fallback
		}
		return time.Duration(minutes) * time.Minute
	}
	switch bookingType {
	case models.BookingDaily:
		return fromConfig(config.AppConfig.MinDailyMinutes, defaultMinDaily)
	case models.BookingMonthly:
		return fromConfig(config.AppConfig.MinMonthlyMinutes, defaultMinMonthly)
	default:
		return fromConfig(config.AppConfig.MinHourlyMinutes, defaultMinHourly)
	}
}

// ComputeTotal prices a window at the given rate: rate x ceil(duration
// / unit), rounded to 2 decimals.
func ComputeTotal(rate float64, start, end time.Time, bookingType string) float64 {
	unit := BillingUnit(bookingType)
	units := math.Ceil(float64(end.Sub(start)) / float64(unit))
	return math.Round(rate*units*100) / 100
}

// RateFor looks up the rate configured on a tariff record for a booking
// type. A missing rate is a data defect on the record, not user error.
func RateFor(record *models.TariffRecord, bookingType string) (float64, error) {
	switch bookingType {
	case models.BookingHourly:
		return record.HourlyRate, nil
	case models.BookingDaily:
		if record.DailyRate == nil {
			return 0, &ConfigurationError{Message: "tariff record " + record.ID + " has no daily rate"}
		}
		return *record.DailyRate, nil
	case models.BookingMonthly:
		if record.MonthlyRate == nil {
			return 0, &ConfigurationError{Message: "tariff record " + record.ID + " has no monthly rate"}
		}
		return *record.MonthlyRate, nil
	default:
		return 0, &ConfigurationError{Message: "unknown booking type " + bookingType}
	}
}
