package ledger

import (
	"fmt"
	"math/big"
	"sync"

	"treasury/domain"

	"github.com/tonkeeper/tongo"
)

var (
	ErrorNotOperator           = fmt.Errorf("caller is not the ledger operator")
	ErrorInsufficientBalance   = fmt.Errorf("insufficient balance")
	ErrorInsufficientAllowance = fmt.Errorf("insufficient allowance")
	ErrorNegativeAmount        = fmt.Errorf("amount must not be negative")
)

type allowanceKey struct {
	owner   tongo.AccountID
	spender tongo.AccountID
}

type ledgerState struct {
	balances   map[tongo.AccountID]*big.Int
	allowances map[allowanceKey]*big.Int
	total      *big.Int
	operator   tongo.AccountID
}

func (s *ledgerState) clone() *ledgerState {
	c := &ledgerState{
		balances:   make(map[tongo.AccountID]*big.Int, len(s.balances)),
		allowances: make(map[allowanceKey]*big.Int, len(s.allowances)),
		total:      new(big.Int).Set(s.total),
		operator:   s.operator,
	}
	for addr, balance := range s.balances {
		c.balances[addr] = new(big.Int).Set(balance)
	}
	for key, allowance := range s.allowances {
		c.allowances[key] = new(big.Int).Set(allowance)
	}
	return c
}

// MemoryLedger is an in-process fungible token ledger with an operator gate on
// mint, burn and operator rotation. It supports one staged transaction at a
// time: Begin snapshots the whole state, Rollback restores it, Commit drops
// the snapshot.
type MemoryLedger struct {
	mu     sync.Mutex
	symbol string
	state  *ledgerState
	saved  *ledgerState
}

func NewMemoryLedger(symbol string, operator tongo.AccountID) *MemoryLedger {
	return &MemoryLedger{
		symbol: symbol,
		state: &ledgerState{
			balances:   make(map[tongo.AccountID]*big.Int),
			allowances: make(map[allowanceKey]*big.Int),
			total:      new(big.Int),
			operator:   operator,
		},
	}
}

func (l *MemoryLedger) Symbol() string {
	return l.symbol
}

//-------------------------------------------------------------------
// Transactional

func (l *MemoryLedger) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.saved != nil {
		panic("ledger transaction already open")
	}
	l.saved = l.state.clone()
}

func (l *MemoryLedger) Commit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saved = nil
}

func (l *MemoryLedger) Rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.saved != nil {
		l.state = l.saved
		l.saved = nil
	}
}

//-------------------------------------------------------------------
// Mutations

func (l *MemoryLedger) Mint(caller, to tongo.AccountID, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if caller != l.state.operator {
		return ErrorNotOperator
	}
	if amount.Sign() < 0 {
		return ErrorNegativeAmount
	}
	l.credit(to, amount)
	l.state.total.Add(l.state.total, amount)
	return nil
}

func (l *MemoryLedger) BurnFrom(caller, from tongo.AccountID, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if caller != l.state.operator {
		return ErrorNotOperator
	}
	if amount.Sign() < 0 {
		return ErrorNegativeAmount
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.state.total.Sub(l.state.total, amount)
	return nil
}

func (l *MemoryLedger) Transfer(from, to tongo.AccountID, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount.Sign() < 0 {
		return ErrorNegativeAmount
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	return nil
}

func (l *MemoryLedger) Approve(owner, spender tongo.AccountID, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount.Sign() < 0 {
		return ErrorNegativeAmount
	}
	l.state.allowances[allowanceKey{owner: owner, spender: spender}] = new(big.Int).Set(amount)
	return nil
}

func (l *MemoryLedger) Allowance(owner, spender tongo.AccountID) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if allowance, ok := l.state.allowances[allowanceKey{owner: owner, spender: spender}]; ok {
		return new(big.Int).Set(allowance)
	}
	return new(big.Int)
}

func (l *MemoryLedger) TransferFrom(caller, from, to tongo.AccountID, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount.Sign() < 0 {
		return ErrorNegativeAmount
	}
	key := allowanceKey{owner: from, spender: caller}
	allowance, ok := l.state.allowances[key]
	if !ok || allowance.Cmp(amount) < 0 {
		return ErrorInsufficientAllowance
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	allowance.Sub(allowance, amount)
	return nil
}

func (l *MemoryLedger) SetOperator(caller, operator tongo.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if caller != l.state.operator {
		return ErrorNotOperator
	}
	l.state.operator = operator
	return nil
}

//-------------------------------------------------------------------
// Views

func (l *MemoryLedger) BalanceOf(addr tongo.AccountID) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if balance, ok := l.state.balances[addr]; ok {
		return new(big.Int).Set(balance)
	}
	return new(big.Int)
}

func (l *MemoryLedger) TotalSupply() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.state.total)
}

func (l *MemoryLedger) Operator() tongo.AccountID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.operator
}

//-------------------------------------------------------------------

func (l *MemoryLedger) credit(addr tongo.AccountID, amount *big.Int) {
	if balance, ok := l.state.balances[addr]; ok {
		balance.Add(balance, amount)
		return
	}
	l.state.balances[addr] = new(big.Int).Set(amount)
}

func (l *MemoryLedger) debit(addr tongo.AccountID, amount *big.Int) error {
	balance, ok := l.state.balances[addr]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrorInsufficientBalance
	}
	balance.Sub(balance, amount)
	return nil
}

var _ domain.TokenLedger = (*MemoryLedger)(nil)
