package market

import "sync"

// WalletLedger holds the simulated funds balance EMDs are debited against.
// The balance check and subtraction are a single critical section so
// concurrent debits can never drive the balance negative.
type WalletLedger struct {
	mu      sync.Mutex
	balance int64
}

func NewWalletLedger(balance int64) *WalletLedger {
	return &WalletLedger{balance: balance}
}

// Debit reduces the balance by amount, or fails with ErrInsufficientFunds
// leaving the balance untouched. There are no partial debits.
func (l *WalletLedger) Debit(amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.balance {
		return ErrInsufficientFunds
	}
	l.balance -= amount
	return nil
}

// Credit increases the balance by amount. Callers must pass a non-negative
// amount; a negative amount is a programming error, not a modeled failure.
func (l *WalletLedger) Credit(amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance += amount
}

func (l *WalletLedger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}
