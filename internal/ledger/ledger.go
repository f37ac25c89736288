package ledger

import (
	"errors"
	"sync"
	"time"
)

// Funds is an amount of value in micro-units: 1 unit = 1_000_000 micro.
// The economy's constants (0.001 and 0.003 unit) stay exact integers.
type Funds int64

var (
	ErrNoAccount          = errors.New("ledger: no such account")
	ErrInsufficientFunds  = errors.New("ledger: insufficient funds")
	ErrInsufficientEscrow = errors.New("ledger: insufficient escrow")
	ErrTransferBlocked    = errors.New("ledger: recipient cannot accept funds")
	ErrNegativeAmount     = errors.New("ledger: amount must be positive")
)

type Account struct {
	ID       string    `json:"id"`
	Balance  Funds     `json:"balance"`
	Frozen   bool      `json:"frozen"`
	OpenedAt time.Time `json:"opened_at"`
}

// Memory is the process-wide ledger: per-gardener wallets plus the pooled
// escrow that backs harvest payouts. One mutex guards everything, so each
// operation is a single atomic step and escrow can never go negative
// between the check and the debit.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	escrow   Funds
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]*Account)}
}

// Open creates the wallet for id if it does not exist yet. Reopening is a
// no-op so callers don't need to track which gardeners already have one.
func (m *Memory) Open(id string, now time.Time) Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[id]; ok {
		return *a
	}
	a := &Account{ID: id, OpenedAt: now}
	m.accounts[id] = a
	return *a
}

func (m *Memory) Account(id string) (Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

func (m *Memory) Escrow() Funds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.escrow
}

// Deposit credits a wallet from outside the system (the faucet path).
func (m *Memory) Deposit(id string, amount Funds) (Funds, error) {
	if amount <= 0 {
		return 0, ErrNegativeAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return 0, ErrNoAccount
	}
	a.Balance += amount
	return a.Balance, nil
}

// ChargeToEscrow moves amount from a wallet into escrow. This is the only
// way escrow is ever credited.
func (m *Memory) ChargeToEscrow(id string, amount Funds) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return ErrNoAccount
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	m.escrow += amount
	return nil
}

// PayoutFromEscrow moves amount from escrow into a wallet. A frozen
// recipient rejects the transfer and no funds move; an escrow shortfall is
// an invariant violation, never a clamp.
func (m *Memory) PayoutFromEscrow(id string, amount Funds) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return ErrNoAccount
	}
	if a.Frozen {
		return ErrTransferBlocked
	}
	if m.escrow < amount {
		return ErrInsufficientEscrow
	}
	m.escrow -= amount
	a.Balance += amount
	return nil
}

// SweepEscrow drains the whole escrow into a wallet and returns the amount
// moved. Sweeping zero is fine; a frozen recipient still rejects it.
func (m *Memory) SweepEscrow(id string) (Funds, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return 0, ErrNoAccount
	}
	if a.Frozen {
		return 0, ErrTransferBlocked
	}
	amount := m.escrow
	m.escrow = 0
	a.Balance += amount
	return amount, nil
}

// SetFrozen flips whether a wallet can receive funds.
func (m *Memory) SetFrozen(id string, frozen bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return ErrNoAccount
	}
	a.Frozen = frozen
	return nil
}
