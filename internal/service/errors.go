package service

import "errors"

var (
	// ErrVehicleNotFound is returned when the referenced vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrEntranceNotFound is returned when the referenced entrance does not exist.
	ErrEntranceNotFound = errors.New("entrance not found")

	// ErrSpaceNotFound is returned when the referenced space does not exist.
	ErrSpaceNotFound = errors.New("space not found")

	// ErrTicketNotFound is returned when the referenced ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrParkingClosed is returned when fewer than the minimum number of
	// entrances are configured and the garage cannot accept vehicles.
	ErrParkingClosed = errors.New("parking closed")

	// ErrNoSpaceAvailable is returned when no vacant, size-compatible space
	// is reachable from the entrance. The caller may try another entrance.
	ErrNoSpaceAvailable = errors.New("no parking space available, please try another entrance")

	// ErrVehicleAlreadyParked is returned when the vehicle already has an
	// active ticket with a started session.
	ErrVehicleAlreadyParked = errors.New("vehicle is already parked")

	// ErrVehicleNotParked is returned on exit when the vehicle has no
	// active ticket.
	ErrVehicleNotParked = errors.New("vehicle not parked")

	// ErrSpaceOccupied is returned when the selected space was claimed by a
	// concurrent entry between selection and session start.
	ErrSpaceOccupied = errors.New("space is already occupied")

	// ErrTicketHasActiveSession is returned when starting a session for a
	// ticket that already has one.
	ErrTicketHasActiveSession = errors.New("ticket already has an active session")

	// ErrNoActiveSession is returned when computing cost for a ticket with
	// no started session.
	ErrNoActiveSession = errors.New("ticket does not have an active session")

	// ErrSpaceAlreadyAssigned is returned when assigning a space to an
	// entrance it is already assigned to.
	ErrSpaceAlreadyAssigned = errors.New("space already assigned to the entrance")

	// ErrInvalidVehicleID is returned when the vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidEntranceID is returned when the entrance ID is empty.
	ErrInvalidEntranceID = errors.New("invalid entrance id")

	// ErrInvalidSpaceID is returned when the space ID is empty.
	ErrInvalidSpaceID = errors.New("invalid space id")

	// ErrInvalidPlateNumber is returned when the plate number is empty.
	ErrInvalidPlateNumber = errors.New("invalid plate number")

	// ErrInvalidSize is returned when the size label is not a known size class.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidDistance is returned when the assignment distance is negative.
	ErrInvalidDistance = errors.New("invalid distance")
)
