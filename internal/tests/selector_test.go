package tests

import (
	"context"
	"testing"

	"parking/internal/domain"
	"parking/internal/service"
)

// ──────────────────────────────────────────────
// 2. SPACE SELECTION
// ──────────────────────────────────────────────

type selectorFixture struct {
	linkRepo    *MockEntranceSpaceRepository
	spaceRepo   *MockSpaceRepository
	sessionRepo *MockSessionRepository
	selector    *service.SelectorService
}

func newSelectorFixture() *selectorFixture {
	linkRepo := NewMockEntranceSpaceRepository()
	spaceRepo := NewMockSpaceRepository(linkRepo)
	sessionRepo := NewMockSessionRepository()

	catalog := service.NewCatalogService(spaceRepo)
	occupancy := service.NewOccupancyService(sessionRepo)

	return &selectorFixture{
		linkRepo:    linkRepo,
		spaceRepo:   spaceRepo,
		sessionRepo: sessionRepo,
		selector:    service.NewSelectorService(catalog, occupancy),
	}
}

// addSpace seeds a space and links it to the entrance at the given
// distance.
func (f *selectorFixture) addSpace(id string, size domain.Size, entranceID string, distance int) {
	f.spaceRepo.AddSpace(&domain.Space{ID: id, Name: id, Size: size})
	f.linkRepo.AddLink(&domain.EntranceSpace{
		ID:         "link-" + entranceID + "-" + id,
		EntranceID: entranceID,
		SpaceID:    id,
		Distance:   distance,
	})
}

// occupy marks a space as occupied by a started session.
func (f *selectorFixture) occupy(spaceID string) {
	f.sessionRepo.AddSession(&domain.ParkingSession{
		ID:       "session-" + spaceID,
		TicketID: "ticket-" + spaceID,
		SpaceID:  spaceID,
		Status:   domain.SessionStatusStarted,
	})
}

func TestSelector_PicksFarthestVacantSpace(t *testing.T) {
	t.Parallel()

	f := newSelectorFixture()
	f.addSpace("space-near", domain.SizeSmall, "entrance-1", 1)
	f.addSpace("space-mid", domain.SizeSmall, "entrance-1", 5)
	f.addSpace("space-far", domain.SizeSmall, "entrance-1", 9)

	space, err := f.selector.SelectSpace(context.Background(), "entrance-1", domain.SizeSmall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space == nil {
		t.Fatal("expected a space")
	}

	if space.ID != "space-far" {
		t.Errorf("expected farthest space space-far, got %s", space.ID)
	}
}

func TestSelector_SizeCompatibility(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		vehicleSize domain.Size
		spaceSize   domain.Size
		fits        bool
	}{
		{"small vehicle small space", domain.SizeSmall, domain.SizeSmall, true},
		{"small vehicle large space", domain.SizeSmall, domain.SizeLarge, true},
		{"medium vehicle small space", domain.SizeMedium, domain.SizeSmall, false},
		{"medium vehicle medium space", domain.SizeMedium, domain.SizeMedium, true},
		{"large vehicle medium space", domain.SizeLarge, domain.SizeMedium, false},
		{"large vehicle large space", domain.SizeLarge, domain.SizeLarge, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newSelectorFixture()
			f.addSpace("space-1", tc.spaceSize, "entrance-1", 3)

			space, err := f.selector.SelectSpace(context.Background(), "entrance-1", tc.vehicleSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.fits && space == nil {
				t.Error("expected a space, got none")
			}
			if !tc.fits && space != nil {
				t.Errorf("expected no space, got %s", space.ID)
			}
		})
	}
}

func TestSelector_SkipsOccupiedSpaces(t *testing.T) {
	t.Parallel()

	f := newSelectorFixture()
	f.addSpace("space-near", domain.SizeSmall, "entrance-1", 1)
	f.addSpace("space-far", domain.SizeSmall, "entrance-1", 9)
	f.occupy("space-far")

	space, err := f.selector.SelectSpace(context.Background(), "entrance-1", domain.SizeSmall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space == nil {
		t.Fatal("expected a space")
	}

	if space.ID != "space-near" {
		t.Errorf("expected space-near, got %s", space.ID)
	}
}

func TestSelector_PrefersFartherSpaceOverLargerOne(t *testing.T) {
	t.Parallel()

	// Distance is the only ranking criterion: a small vehicle takes the
	// farthest compatible space even when it is a large one.
	f := newSelectorFixture()
	f.addSpace("space-small", domain.SizeSmall, "entrance-1", 2)
	f.addSpace("space-large", domain.SizeLarge, "entrance-1", 7)

	space, err := f.selector.SelectSpace(context.Background(), "entrance-1", domain.SizeSmall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space == nil {
		t.Fatal("expected a space")
	}

	if space.ID != "space-large" {
		t.Errorf("expected space-large, got %s", space.ID)
	}
}

func TestSelector_NoCandidatesReturnsNil(t *testing.T) {
	t.Parallel()

	f := newSelectorFixture()
	f.addSpace("space-1", domain.SizeSmall, "entrance-1", 1)
	f.occupy("space-1")

	space, err := f.selector.SelectSpace(context.Background(), "entrance-1", domain.SizeSmall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if space != nil {
		t.Errorf("expected nil, got %s", space.ID)
	}
}

func TestSelector_OnlyConsidersAssignedSpaces(t *testing.T) {
	t.Parallel()

	f := newSelectorFixture()
	// space-unlinked exists but is reachable from a different entrance.
	f.addSpace("space-unlinked", domain.SizeSmall, "entrance-2", 1)

	space, err := f.selector.SelectSpace(context.Background(), "entrance-1", domain.SizeSmall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if space != nil {
		t.Errorf("expected nil, got %s", space.ID)
	}
}
