package garden

import (
	"errors"

	"verdant/internal/ledger"
)

var (
	ErrInsufficientPayment = errors.New("fee below plant price")
	ErrUnknownPlant        = errors.New("unknown plant")
	ErrNotOwner            = errors.New("caller does not own this plant")
	ErrAlreadyDead         = errors.New("plant is dead")
	ErrNotActive           = errors.New("plant already harvested")
	ErrNotReady            = errors.New("plant is not blooming yet")
	ErrNotAdministrator    = errors.New("administrator only")
)

// Ledger failures surface through the engine unchanged.
var (
	ErrTransferFailed     = ledger.ErrTransferBlocked
	ErrInsufficientEscrow = ledger.ErrInsufficientEscrow
)
