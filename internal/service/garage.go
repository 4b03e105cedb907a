package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"parking/internal/domain"
	"parking/internal/redis"
	"parking/internal/repository"
)

const (
	// minEntrances is the whole-garage readiness gate: entry is refused
	// until at least this many entrances are configured.
	minEntrances = 3

	spaceLockTTL   = 10 * time.Second
	vehicleLockTTL = 10 * time.Second
)

// GarageService composes space selection, the ticket ledger, and session
// billing into the two external-facing operations: vehicle entry and
// vehicle exit. It also owns the entrance-space assignment operation.
type GarageService struct {
	vehicleRepo       repository.VehicleRepository
	entranceRepo      repository.EntranceRepository
	spaceRepo         repository.SpaceRepository
	entranceSpaceRepo repository.EntranceSpaceRepository
	selector          *SelectorService
	occupancy         *OccupancyService
	ledger            *TicketLedgerService
	billing           *BillingService
	lockStore         redis.LockStoreInterface
	cacheStore        redis.CacheStoreInterface
	clock             Clock
}

// NewGarageService creates a new GarageService. lockStore and cacheStore
// may be nil, in which case entry relies solely on the database uniqueness
// constraints.
func NewGarageService(
	vehicleRepo repository.VehicleRepository,
	entranceRepo repository.EntranceRepository,
	spaceRepo repository.SpaceRepository,
	entranceSpaceRepo repository.EntranceSpaceRepository,
	selector *SelectorService,
	occupancy *OccupancyService,
	ledger *TicketLedgerService,
	billing *BillingService,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	clock Clock,
) *GarageService {
	return &GarageService{
		vehicleRepo:       vehicleRepo,
		entranceRepo:      entranceRepo,
		spaceRepo:         spaceRepo,
		entranceSpaceRepo: entranceSpaceRepo,
		selector:          selector,
		occupancy:         occupancy,
		ledger:            ledger,
		billing:           billing,
		lockStore:         lockStore,
		cacheStore:        cacheStore,
		clock:             clock,
	}
}

// EnterResult contains the outcome of a vehicle entry.
type EnterResult struct {
	Entrance *domain.Entrance
	Space    *domain.SpaceWithDistance
	Ticket   *domain.Ticket
	Session  *domain.ParkingSession
}

// Enter admits a vehicle through an entrance: selects a legal vacant
// space, issues or reuses a ticket, and starts a parking session.
func (s *GarageService) Enter(ctx context.Context, entranceID, vehicleID string) (*EnterResult, error) {
	if entranceID == "" {
		return nil, ErrInvalidEntranceID
	}
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	count, err := s.entranceCount(ctx)
	if err != nil {
		return nil, err
	}
	if count < minEntrances {
		return nil, ErrParkingClosed
	}

	vehicle, err := s.getVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	entrance, err := s.entranceRepo.GetByID(ctx, entranceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntranceNotFound
		}
		return nil, err
	}

	// Guard against concurrent entries for the same vehicle. The partial
	// unique index on active tickets is the backstop when Redis is absent.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireVehicleLock(ctx, vehicleID, vehicleLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrVehicleAlreadyParked
		}
		defer s.lockStore.ReleaseVehicleLock(ctx, vehicleID)
	}

	active, err := s.ledger.ActiveTicketFor(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrVehicleAlreadyParked
	}

	space, err := s.selector.SelectSpace(ctx, entranceID, vehicle.Size)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrNoSpaceAvailable
	}

	// Lock the selected space and re-check occupancy: another entry may
	// have claimed it between selection and now.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireSpaceLock(ctx, space.ID, spaceLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrSpaceOccupied
		}
		defer s.lockStore.ReleaseSpaceLock(ctx, space.ID)
	}

	occupied, err := s.occupancy.IsOccupied(ctx, space.ID)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrSpaceOccupied
	}

	ticket, err := s.ledger.TicketFor(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	session, err := s.billing.Start(ctx, ticket.ID, entranceID, space.ID)
	if err != nil {
		return nil, err
	}

	return &EnterResult{
		Entrance: entrance,
		Space:    space,
		Ticket:   ticket,
		Session:  session,
	}, nil
}

// ExitResult contains the outcome of a vehicle exit: the finalized ticket
// with its cumulative totals, the just-ended session, and the full session
// breakdown of the ticket.
type ExitResult struct {
	Ticket    *domain.Ticket
	Session   *domain.ParkingSession
	Breakdown []*domain.ParkingSession
}

// Exit checks a vehicle out: prices and ends its active session, applies
// the cumulative updates, and completes the ticket.
func (s *GarageService) Exit(ctx context.Context, vehicleID string) (*ExitResult, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	if _, err := s.getVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireVehicleLock(ctx, vehicleID, vehicleLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrVehicleNotParked
		}
		defer s.lockStore.ReleaseVehicleLock(ctx, vehicleID)
	}

	ticket, err := s.ledger.ActiveTicketFor(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrVehicleNotParked
	}

	result, err := s.billing.Stop(ctx, ticket)
	if err != nil {
		return nil, err
	}

	finalized, err := s.ledger.CompleteCheckout(ctx, ticket, result)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.ledger.Sessions(ctx, finalized.ID)
	if err != nil {
		return nil, err
	}

	return &ExitResult{
		Ticket:    finalized,
		Session:   result.Session,
		Breakdown: breakdown,
	}, nil
}

// CostPreview prices the vehicle's active session as of now without
// ending it.
func (s *GarageService) CostPreview(ctx context.Context, vehicleID string) (*CostResult, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	if _, err := s.getVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	ticket, err := s.ledger.ActiveTicketFor(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrVehicleNotParked
	}

	return s.billing.CalculateCost(ctx, ticket, s.clock.Now())
}

// AssignSpace links a space to an entrance at the given distance. A space
// cannot be assigned twice to the same entrance.
func (s *GarageService) AssignSpace(ctx context.Context, entranceID, spaceID string, distance int) (*domain.EntranceSpace, error) {
	if entranceID == "" {
		return nil, ErrInvalidEntranceID
	}
	if spaceID == "" {
		return nil, ErrInvalidSpaceID
	}
	if distance < 0 {
		return nil, ErrInvalidDistance
	}

	if _, err := s.entranceRepo.GetByID(ctx, entranceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntranceNotFound
		}
		return nil, err
	}

	if _, err := s.spaceRepo.GetByID(ctx, spaceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	exists, err := s.entranceSpaceRepo.Exists(ctx, entranceID, spaceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSpaceAlreadyAssigned
	}

	link := &domain.EntranceSpace{
		ID:         uuid.New().String(),
		EntranceID: entranceID,
		SpaceID:    spaceID,
		Distance:   distance,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.entranceSpaceRepo.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSpaceAlreadyAssigned
		}
		return nil, err
	}

	return link, nil
}

// CreateEntrance adds a new entrance and invalidates the cached entrance
// count so the parking-closed gate sees it.
func (s *GarageService) CreateEntrance(ctx context.Context, name string) (*domain.Entrance, error) {
	entrance := &domain.Entrance{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	if err := s.entranceRepo.Create(ctx, entrance); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateEntranceCount(ctx)
	}

	return entrance, nil
}

// entranceCount returns the number of configured entrances, preferring the
// cached value.
func (s *GarageService) entranceCount(ctx context.Context) (int, error) {
	if s.cacheStore != nil {
		if count, err := s.cacheStore.GetEntranceCount(ctx); err == nil && count >= 0 {
			return count, nil
		}
	}

	count, err := s.entranceRepo.Count(ctx)
	if err != nil {
		return 0, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetEntranceCount(ctx, count)
	}

	return count, nil
}

// getVehicle fetches a vehicle, preferring the cache. Vehicles are
// immutable after registration so cached entries never go stale.
func (s *GarageService) getVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetVehicle(ctx, vehicleID); err == nil && cached != nil {
			return &domain.Vehicle{
				ID:          cached.ID,
				PlateNumber: cached.PlateNumber,
				Size:        domain.Size(cached.Size),
			}, nil
		}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetVehicle(ctx, &redis.CachedVehicle{
			ID:          vehicle.ID,
			PlateNumber: vehicle.PlateNumber,
			Size:        int(vehicle.Size),
		})
	}

	return vehicle, nil
}
