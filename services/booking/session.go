package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parkly/config"
	"parkly/database/repository"
	"parkly/models"
	"parkly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// QuoteService runs the two-phase flow: a quote lists the candidate
// facilities and the price that would apply, cached under a session id;
// confirming the session replays the request through the coordinator,
// which re-checks everything -- a quote never holds a space.
type QuoteService struct {
	FacilityRepo repository.FacilityRepository
	Tariffs      *TariffResolver
	Coordinator  Coordinator
	Cache        *redis.Client
}

// Quote validates the request, finds candidates and prices the nearest
// one, then caches the session for later confirmation.
func (s *QuoteService) Quote(ctx context.Context, input models.BookingRequestInput) (string, *models.QuoteSession, error) {
	if err := ValidateRequest(input); err != nil {
		return "", nil, err
	}

	point := models.NewGeoPoint(input.Location.Lon, input.Location.Lat)
	radiusKm := config.AppConfig.SearchRadiusKm
	if radiusKm <= 0 {
		radiusKm = 5
	}
	limit := config.AppConfig.CandidateLimit
	if limit <= 0 {
		limit = 3
	}

	candidates, err := s.FacilityRepo.NearestAvailable(point, radiusKm*1000, input.SpaceType, limit)
	if err != nil {
		return "", nil, fmt.Errorf("candidate search failed: %w", err)
	}
	if len(candidates) == 0 {
		return "", nil, &NoAvailabilityError{Message: "no open facility with a matching free space in range"}
	}

	record, err := s.Tariffs.Resolve(candidates[0].ID, input.SpaceType, time.Now())
	if err != nil {
		return "", nil, err
	}
	rate, err := RateFor(record, input.BookingType)
	if err != nil {
		return "", nil, err
	}

	session := &models.QuoteSession{
		Request:    input,
		Candidates: candidates,
		Rate:       rate,
		Estimated:  ComputeTotal(rate, input.WindowStart, input.WindowEnd, input.BookingType),
	}

	sessionID := uuid.New().String()
	data, err := json.Marshal(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal quote session: %w", err)
	}
	if err := s.Cache.Set(ctx, utils.QuoteSessionPrefix+sessionID, data, utils.QuoteSessionTTL).Err(); err != nil {
		return "", nil, fmt.Errorf("failed to cache quote session: %w", err)
	}

	return sessionID, session, nil
}

// Confirm executes the cached request. The quoted price is an estimate;
// the coordinator resolves the tariff again at commit time and the
// committed amount is authoritative.
func (s *QuoteService) Confirm(ctx context.Context, sessionID, clientID string) (*models.BookingResponse, error) {
	key := utils.QuoteSessionPrefix + sessionID
	data, err := s.Cache.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, &NotFoundError{Resource: "quote session", ID: sessionID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quote session: %w", err)
	}

	var session models.QuoteSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse quote session: %w", err)
	}

	request := session.Request
	if clientID != "" {
		request.ClientID = clientID
	}

	resp, err := s.Coordinator.CreateBooking(ctx, request)
	if err != nil {
		return nil, err
	}

	s.Cache.Del(ctx, key)
	return resp, nil
}
