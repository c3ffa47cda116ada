package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "parkly/database/repository/booking"
	spaceRepo "parkly/database/repository/space"
	"parkly/models"
)

// fakeStore is a single-mutex in-memory stand-in for the Mongo
// collections. The repo adapters below share it so the atomic units
// behave like the real multi-document transactions.
type fakeStore struct {
	mu          sync.Mutex
	facilities  map[string]*models.Facility
	spaces      map[string]*models.Space
	tariffs     []models.TariffRecord
	bookings    map[string]*models.Booking
	searchCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		facilities: make(map[string]*models.Facility),
		spaces:     make(map[string]*models.Space),
		bookings:   make(map[string]*models.Booking),
	}
}

func (s *fakeStore) addFacility(f models.Facility) {
	s.facilities[f.ID] = &f
}

func (s *fakeStore) addSpace(sp models.Space) {
	s.spaces[sp.ID] = &sp
}

func (s *fakeStore) addTariff(t models.TariffRecord) {
	s.tariffs = append(s.tariffs, t)
}

func (s *fakeStore) freeSpaceLocked(facilityID, spaceType string) *models.Space {
	var free []*models.Space
	for _, sp := range s.spaces {
		if sp.FacilityID == facilityID && sp.Type == spaceType && sp.Status == models.SpaceFree {
			free = append(free, sp)
		}
	}
	if len(free) == 0 {
		return nil
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Label < free[j].Label })
	return free[0]
}

type fakeFacilityRepo struct{ store *fakeStore }

func (r *fakeFacilityRepo) Create(f *models.Facility) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.facilities[f.ID] = f
	return nil
}

func (r *fakeFacilityRepo) CreateMany(fs []models.Facility) error {
	for i := range fs {
		if err := r.Create(&fs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeFacilityRepo) GetByID(id string) (*models.Facility, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.facilities[id], nil
}

func (r *fakeFacilityRepo) GetAll() ([]models.Facility, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Facility
	for _, f := range r.store.facilities {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeFacilityRepo) NearestAvailable(point models.GeoPoint, maxDistanceMeters float64, spaceType string, limit int) ([]models.FacilityCandidate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.searchCalls++

	var out []models.FacilityCandidate
	for _, f := range r.store.facilities {
		if f.Status != models.FacilityOpen || f.CapacityAvailable <= 0 {
			continue
		}
		free := 0
		for _, sp := range r.store.spaces {
			if sp.FacilityID == f.ID && sp.Type == spaceType && sp.Status == models.SpaceFree {
				free++
			}
		}
		if free == 0 {
			continue
		}
		out = append(out, models.FacilityCandidate{Facility: *f, FreeSpaces: free})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSpaceRepo struct {
	store *fakeStore

	// When set, FreeSpace fails with this error.
	freeSpaceErr error
}

func (r *fakeSpaceRepo) Create(sp *models.Space) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.spaces[sp.ID] = sp
	return nil
}

func (r *fakeSpaceRepo) GetByID(id string) (*models.Space, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.spaces[id], nil
}

func (r *fakeSpaceRepo) ListByFacility(facilityID string) ([]models.Space, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Space
	for _, sp := range r.store.spaces {
		if sp.FacilityID == facilityID {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (r *fakeSpaceRepo) FreeSpace(facilityID, spaceType string) (*models.Space, error) {
	if r.freeSpaceErr != nil {
		return nil, r.freeSpaceErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sp := r.store.freeSpaceLocked(facilityID, spaceType)
	if sp == nil {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (r *fakeSpaceRepo) SetStatus(spaceID, expected, next string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sp, ok := r.store.spaces[spaceID]
	if !ok || sp.Status != expected {
		return spaceRepo.ErrConflict
	}
	sp.Status = next
	return nil
}

type fakeTariffRepo struct{ store *fakeStore }

func (r *fakeTariffRepo) Create(record *models.TariffRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.tariffs = append(r.store.tariffs, *record)
	return nil
}

func (r *fakeTariffRepo) GetByID(id string) (*models.TariffRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.tariffs {
		if r.store.tariffs[i].ID == id {
			cp := r.store.tariffs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTariffRepo) List(facilityID, spaceType string, activeOnly bool) ([]models.TariffRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	var out []models.TariffRecord
	for _, t := range r.store.tariffs {
		if t.FacilityID != facilityID {
			continue
		}
		if spaceType != "" && t.SpaceType != spaceType {
			continue
		}
		if activeOnly && !t.ActiveAt(now) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Resolve mirrors the persistent query: active records only, latest
// effectiveFrom first.
func (r *fakeTariffRepo) Resolve(facilityID, spaceType string, asOf time.Time) (*models.TariffRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var best *models.TariffRecord
	for i := range r.store.tariffs {
		t := &r.store.tariffs[i]
		if t.FacilityID != facilityID || t.SpaceType != spaceType || !t.ActiveAt(asOf) {
			continue
		}
		if best == nil || t.EffectiveFrom.After(best.EffectiveFrom) {
			best = t
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type fakeBookingRepo struct {
	store *fakeStore

	// When set, the corresponding operation fails with this error.
	overlapErr error
	reserveErr error
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByClient(clientID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByFacility(facilityID string, day *time.Time) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.FacilityID != facilityID {
			continue
		}
		if day != nil {
			dayStart := day.Truncate(24 * time.Hour)
			dayEnd := dayStart.Add(24 * time.Hour)
			if !(b.WindowStart.Before(dayEnd) && b.WindowEnd.After(dayStart)) {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) HasOverlap(spaceID string, start, end time.Time) (bool, error) {
	if r.overlapErr != nil {
		return false, r.overlapErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.SpaceID != spaceID || b.Status == models.BookingCancelled {
			continue
		}
		if b.WindowStart.Before(end) && b.WindowEnd.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) UpdateStatus(bookingID, expected, next string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[bookingID]
	if !ok || b.Status != expected {
		return bookingRepo.ErrConflict
	}
	b.Status = next
	return nil
}

func (r *fakeBookingRepo) SetPayment(bookingID string, payment models.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrConflict
	}
	b.Payment = payment
	return nil
}

func (r *fakeBookingRepo) ReserveAtomically(ctx context.Context, b *models.Booking) error {
	if r.reserveErr != nil {
		return r.reserveErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sp, ok := r.store.spaces[b.SpaceID]
	if !ok || sp.Status != models.SpaceFree {
		return bookingRepo.ErrConflict
	}
	f, ok := r.store.facilities[b.FacilityID]
	if !ok || f.CapacityAvailable <= 0 {
		return bookingRepo.ErrConflict
	}

	sp.Status = models.SpaceReserved
	f.CapacityAvailable--
	cp := *b
	r.store.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) CancelAtomically(ctx context.Context, b *models.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.bookings[b.ID]
	if !ok || stored.Status != models.BookingConfirmed {
		return bookingRepo.ErrConflict
	}
	stored.Status = models.BookingCancelled
	if sp, ok := r.store.spaces[stored.SpaceID]; ok {
		sp.Status = models.SpaceFree
	}
	if f, ok := r.store.facilities[stored.FacilityID]; ok && f.CapacityAvailable < f.CapacityTotal {
		f.CapacityAvailable++
	}
	return nil
}

func (r *fakeBookingRepo) CompleteAtomically(ctx context.Context, b *models.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.bookings[b.ID]
	if !ok || stored.Status != models.BookingInProgress {
		return bookingRepo.ErrConflict
	}
	stored.Status = models.BookingCompleted
	if sp, ok := r.store.spaces[stored.SpaceID]; ok {
		sp.Status = models.SpaceFree
	}
	if f, ok := r.store.facilities[stored.FacilityID]; ok && f.CapacityAvailable < f.CapacityTotal {
		f.CapacityAvailable++
	}
	return nil
}
