package client

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetwise/internal/calculator"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/pkg/api"
)

// TempIDPrefix marks transactions that the server has not confirmed yet.
const TempIDPrefix = "temp-"

// State holds the client's view of the ledger. Optimistic additions show up
// immediately as pending placeholders and are later committed or rolled
// back; the dashboard is recomputed from whatever the state holds.
type State struct {
	mu           sync.RWMutex
	transactions []api.Transaction
	budgets      []api.Budget
	categories   []string
	pending      map[string]bool
}

// NewState creates an empty state.
func NewState() *State {
	return &State{pending: make(map[string]bool)}
}

// SetTransactions replaces the transaction list. Outstanding placeholders
// are kept so an in-flight add does not vanish on refresh.
func (s *State) SetTransactions(txns []api.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]api.Transaction, 0, len(txns)+len(s.pending))
	for _, t := range s.transactions {
		if s.pending[t.ID] {
			next = append(next, t)
		}
	}
	next = append(next, txns...)
	sortTransactions(next)
	s.transactions = next
}

// SetBudgets replaces the budget list.
func (s *State) SetBudgets(budgets []api.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append([]api.Budget(nil), budgets...)
}

// SetCategories replaces the category vocabulary.
func (s *State) SetCategories(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]string(nil), categories...)
}

// Transactions returns a copy of the transactions, most recent first.
func (s *State) Transactions() []api.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Transaction(nil), s.transactions...)
}

// Budgets returns a copy of the budgets.
func (s *State) Budgets() []api.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Budget(nil), s.budgets...)
}

// Categories returns a copy of the category vocabulary.
func (s *State) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...)
}

// IsPending reports whether id is an unconfirmed placeholder.
func (s *State) IsPending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[id]
}

// BeginAddTransaction inserts a pending placeholder for req and returns its
// temporary ID.
func (s *State) BeginAddTransaction(req *api.AddTransactionRequest) string {
	tempID := TempIDPrefix + uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[tempID] = true
	s.transactions = append(s.transactions, api.Transaction{
		ID:          tempID,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
	})
	sortTransactions(s.transactions)
	return tempID
}

// CommitTransaction replaces the placeholder tempID with the server's record.
// A refresh that already delivered the record leaves a single copy.
func (s *State) CommitTransaction(tempID string, confirmed api.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, tempID)
	s.transactions = removeTransaction(s.transactions, confirmed.ID)
	for i := range s.transactions {
		if s.transactions[i].ID == tempID {
			s.transactions[i] = confirmed
			sortTransactions(s.transactions)
			return
		}
	}
	// The placeholder was dropped by a concurrent refresh; keep the record.
	s.transactions = append(s.transactions, confirmed)
	sortTransactions(s.transactions)
}

// RollbackTransaction removes the placeholder tempID.
func (s *State) RollbackTransaction(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, tempID)
	s.transactions = removeTransaction(s.transactions, tempID)
}

// RemoveTransaction drops a confirmed transaction from the state.
func (s *State) RemoveTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = removeTransaction(s.transactions, id)
}

// MergeBudget replaces the budget with the same category, or appends it.
func (s *State) MergeBudget(b api.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.budgets {
		if s.budgets[i].Category == b.Category {
			s.budgets[i] = b
			return
		}
	}
	s.budgets = append(s.budgets, b)
}

// Dashboard derives the dashboard from the current state, placeholders
// included. A non-zero month restricts it to that calendar month. The result
// has the same shape GetDashboard returns.
func (s *State) Dashboard(month time.Time, recent int) *api.GetDashboardResponse {
	s.mu.RLock()
	txns := make([]models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		txns = append(txns, toModelTransaction(t))
	}
	budgets := make([]models.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		budgets = append(budgets, models.Budget{ID: b.ID, Category: b.Category, Limit: b.Limit})
	}
	vocabulary := append([]string(nil), s.categories...)
	s.mu.RUnlock()

	if !month.IsZero() {
		txns = calculator.FilterMonth(txns, month)
	}
	return api.DashboardFromCalculator(calculator.BuildDashboard(txns, budgets, vocabulary, recent))
}

func toModelTransaction(t api.Transaction) models.Transaction {
	// Unparseable dates leave the zero time, which sorts last and matches no month.
	date, _ := time.Parse(models.DateLayout, t.Date)
	return models.Transaction{
		ID:          t.ID,
		Date:        date,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        models.TransactionType(t.Type),
		CreatedAt:   t.CreatedAt,
	}
}

func removeTransaction(txns []api.Transaction, id string) []api.Transaction {
	out := txns[:0]
	for _, t := range txns {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// sortTransactions orders by date, most recent first. YYYY-MM-DD sorts
// lexically; ties keep their insertion order.
func sortTransactions(txns []api.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date > txns[j].Date
	})
}
