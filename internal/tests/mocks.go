package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"parking/internal/domain"
	"parking/internal/redis"
	"parking/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vehicles {
		if v.PlateNumber == vehicle.PlateNumber {
			return repository.ErrConflict
		}
	}
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetByPlateNumber(ctx context.Context, plate string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vehicles {
		if v.PlateNumber == plate {
			copy := *v
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		copy := *v
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ENTRANCE REPOSITORY
// ──────────────────────────────────────────────

// MockEntranceRepository is a mock implementation of EntranceRepository.
type MockEntranceRepository struct {
	mu        sync.RWMutex
	entrances map[string]*domain.Entrance

	// Counters for verification
	CreateCallCount int32
	CountCallCount  int32

	// Error injection
	CreateError error
	CountError  error
}

// NewMockEntranceRepository creates a new mock entrance repository.
func NewMockEntranceRepository() *MockEntranceRepository {
	return &MockEntranceRepository{
		entrances: make(map[string]*domain.Entrance),
	}
}

// AddEntrance adds an entrance to the mock repository.
func (m *MockEntranceRepository) AddEntrance(entrance *domain.Entrance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entrances[entrance.ID] = entrance
}

func (m *MockEntranceRepository) Create(ctx context.Context, entrance *domain.Entrance) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entrances[entrance.ID] = entrance
	return nil
}

func (m *MockEntranceRepository) GetByID(ctx context.Context, id string) (*domain.Entrance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entrance, ok := m.entrances[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *entrance
	return &copy, nil
}

func (m *MockEntranceRepository) GetAll(ctx context.Context) ([]*domain.Entrance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Entrance, 0, len(m.entrances))
	for _, e := range m.entrances {
		copy := *e
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockEntranceRepository) Count(ctx context.Context) (int, error) {
	atomic.AddInt32(&m.CountCallCount, 1)
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entrances), nil
}

// ──────────────────────────────────────────────
// MOCK ENTRANCE-SPACE REPOSITORY
// ──────────────────────────────────────────────

// MockEntranceSpaceRepository is a mock implementation of EntranceSpaceRepository.
type MockEntranceSpaceRepository struct {
	mu    sync.RWMutex
	links []*domain.EntranceSpace

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockEntranceSpaceRepository creates a new mock entrance-space repository.
func NewMockEntranceSpaceRepository() *MockEntranceSpaceRepository {
	return &MockEntranceSpaceRepository{
		links: make([]*domain.EntranceSpace, 0),
	}
}

// AddLink adds an assignment to the mock repository.
func (m *MockEntranceSpaceRepository) AddLink(link *domain.EntranceSpace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
}

func (m *MockEntranceSpaceRepository) Create(ctx context.Context, link *domain.EntranceSpace) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.links {
		if l.EntranceID == link.EntranceID && l.SpaceID == link.SpaceID {
			return repository.ErrConflict
		}
	}
	m.links = append(m.links, link)
	return nil
}

func (m *MockEntranceSpaceRepository) GetByEntranceID(ctx context.Context, entranceID string) ([]*domain.EntranceSpace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.EntranceSpace, 0)
	for _, l := range m.links {
		if l.EntranceID == entranceID {
			copy := *l
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockEntranceSpaceRepository) Exists(ctx context.Context, entranceID, spaceID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.links {
		if l.EntranceID == entranceID && l.SpaceID == spaceID {
			return true, nil
		}
	}
	return false, nil
}

// CountLinks returns the number of assignments.
func (m *MockEntranceSpaceRepository) CountLinks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links)
}

// ──────────────────────────────────────────────
// MOCK SPACE REPOSITORY
// ──────────────────────────────────────────────

// MockSpaceRepository is a mock implementation of SpaceRepository.
// Per-entrance distances come from an attached MockEntranceSpaceRepository
// so tests wire assignments in one place.
type MockSpaceRepository struct {
	mu       sync.RWMutex
	spaces   map[string]*domain.Space
	linkRepo *MockEntranceSpaceRepository

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError          error
	GetByEntranceIDError error
}

// NewMockSpaceRepository creates a new mock space repository backed by the
// given assignment repository.
func NewMockSpaceRepository(linkRepo *MockEntranceSpaceRepository) *MockSpaceRepository {
	return &MockSpaceRepository{
		spaces:   make(map[string]*domain.Space),
		linkRepo: linkRepo,
	}
}

// AddSpace adds a space to the mock repository.
func (m *MockSpaceRepository) AddSpace(space *domain.Space) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces[space.ID] = space
}

func (m *MockSpaceRepository) Create(ctx context.Context, space *domain.Space) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces[space.ID] = space
	return nil
}

func (m *MockSpaceRepository) GetByID(ctx context.Context, id string) (*domain.Space, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	space, ok := m.spaces[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *space
	return &copy, nil
}

func (m *MockSpaceRepository) GetAll(ctx context.Context) ([]*domain.Space, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Space, 0, len(m.spaces))
	for _, s := range m.spaces {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockSpaceRepository) GetByEntranceID(ctx context.Context, entranceID string) ([]*domain.SpaceWithDistance, error) {
	if m.GetByEntranceIDError != nil {
		return nil, m.GetByEntranceIDError
	}
	links, err := m.linkRepo.GetByEntranceID(ctx, entranceID)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SpaceWithDistance, 0, len(links))
	for _, l := range links {
		space, ok := m.spaces[l.SpaceID]
		if !ok {
			continue
		}
		result = append(result, &domain.SpaceWithDistance{
			Space:    *space,
			Distance: l.Distance,
		})
	}
	// Match the SQL ordering.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	})
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK TICKET REPOSITORY
// ──────────────────────────────────────────────

// MockTicketRepository is a mock implementation of TicketRepository.
type MockTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	nextNum int64

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTicketRepository creates a new mock ticket repository.
func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		tickets: make(map[string]*domain.Ticket),
	}
}

// AddTicket adds a ticket to the mock repository.
func (m *MockTicketRepository) AddTicket(ticket *domain.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.ID] = ticket
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Same rule the partial unique index enforces.
	for _, t := range m.tickets {
		if t.VehicleID == ticket.VehicleID && t.Status == domain.TicketStatusActive {
			return repository.ErrConflict
		}
	}
	m.nextNum++
	ticket.Number = m.nextNum
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ticket
	return &copy, nil
}

func (m *MockTicketRepository) GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.Ticket
	for _, t := range m.tickets {
		if t.VehicleID != vehicleID || t.Status != domain.TicketStatusActive {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (m *MockTicketRepository) GetLastCompletedByVehicleID(ctx context.Context, vehicleID string) (*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.Ticket
	for _, t := range m.tickets {
		if t.VehicleID != vehicleID || t.Status != domain.TicketStatusCompleted {
			continue
		}
		if latest == nil || t.CompletedAt.After(latest.CompletedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[ticket.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *ticket
	m.tickets[ticket.ID] = &copy
	return nil
}

// GetTicket returns the ticket by ID (for test assertions).
func (m *MockTicketRepository) GetTicket(id string) *domain.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tickets[id]
}

// CountTickets returns the number of tickets.
func (m *MockTicketRepository) CountTickets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tickets)
}

// ──────────────────────────────────────────────
// MOCK SESSION REPOSITORY
// ──────────────────────────────────────────────

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ParkingSession
	order    []string

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockSessionRepository creates a new mock session repository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]*domain.ParkingSession),
	}
}

// AddSession adds a session to the mock repository.
func (m *MockSessionRepository) AddSession(session *domain.ParkingSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	m.order = append(m.order, session.ID)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.ParkingSession) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Same rules the partial unique indexes enforce.
	for _, s := range m.sessions {
		if s.Status != domain.SessionStatusStarted {
			continue
		}
		if s.SpaceID == session.SpaceID || s.TicketID == session.TicketID {
			return repository.ErrConflict
		}
	}
	m.sessions[session.ID] = session
	m.order = append(m.order, session.ID)
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*domain.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *session
	return &copy, nil
}

func (m *MockSessionRepository) GetStartedByTicketID(ctx context.Context, ticketID string) (*domain.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.TicketID == ticketID && s.Status == domain.SessionStatusStarted {
			copy := *s
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepository) GetStartedBySpaceID(ctx context.Context, spaceID string) (*domain.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.SpaceID == spaceID && s.Status == domain.SessionStatusStarted {
			copy := *s
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepository) GetByTicketID(ctx context.Context, ticketID string) ([]*domain.ParkingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ParkingSession, 0)
	for _, id := range m.order {
		s := m.sessions[id]
		if s.TicketID == ticketID {
			copy := *s
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.ParkingSession) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *session
	m.sessions[session.ID] = &copy
	return nil
}

// GetSession returns the session by ID (for test assertions).
func (m *MockSessionRepository) GetSession(id string) *domain.ParkingSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// CountSessions returns the number of sessions.
func (m *MockSessionRepository) CountSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CountStartedSessions counts sessions still in STARTED status.
func (m *MockSessionRepository) CountStartedSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.sessions {
		if s.Status == domain.SessionStatusStarted {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MockLockStore) AcquireSpaceLock(ctx context.Context, spaceID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:space:"+spaceID, ttl)
}

func (m *MockLockStore) ReleaseSpaceLock(ctx context.Context, spaceID string) error {
	return m.release("lock:space:" + spaceID)
}

func (m *MockLockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:vehicle:"+vehicleID, ttl)
}

func (m *MockLockStore) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	return m.release("lock:vehicle:" + vehicleID)
}

// IsLocked checks if a key is locked (for test assertions).
func (m *MockLockStore) IsLocked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[key]
	return exists && time.Now().Before(expiry)
}

// ClearLocks clears all locks (for test cleanup).
func (m *MockLockStore) ClearLocks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks = make(map[string]time.Time)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore.
type MockCacheStore struct {
	mu            sync.RWMutex
	vehicles      map[string]*redis.CachedVehicle
	entranceCount int

	// Counters
	GetVehicleCallCount int32
	SetVehicleCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		vehicles:      make(map[string]*redis.CachedVehicle),
		entranceCount: -1,
	}
}

func (m *MockCacheStore) GetVehicle(ctx context.Context, vehicleID string) (*redis.CachedVehicle, error) {
	atomic.AddInt32(&m.GetVehicleCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[vehicleID]
	if !ok {
		return nil, nil
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockCacheStore) SetVehicle(ctx context.Context, vehicle *redis.CachedVehicle) error {
	atomic.AddInt32(&m.SetVehicleCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

func (m *MockCacheStore) GetEntranceCount(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entranceCount, nil
}

func (m *MockCacheStore) SetEntranceCount(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entranceCount = count
	return nil
}

func (m *MockCacheStore) InvalidateEntranceCount(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entranceCount = -1
	return nil
}

// ──────────────────────────────────────────────
// FAKE CLOCK
// ──────────────────────────────────────────────

// FakeClock is a settable clock for billing tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a fake clock pinned to the given time.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to the given time.
func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
