package services

import "sales-dashboard/internal/models"

// Session is one user's filter chain over a pristine collection. It is not
// safe for concurrent use; give each user or request its own.
type Session struct {
	original []models.Transaction
	state    FilterState
	view     []models.Transaction
}

func NewSession(original []models.Transaction) *Session {
	s := &Session{original: original}
	s.Reset()
	return s
}

// Apply replaces the current filter and returns the new view.
func (s *Session) Apply(state FilterState) []models.Transaction {
	s.state = state
	s.view = Apply(s.original, state)
	return s.view
}

// Reset clears every filter and restores the original collection as the view.
func (s *Session) Reset() []models.Transaction {
	return s.Apply(FilterState{})
}

func (s *Session) View() []models.Transaction {
	return s.view
}

func (s *Session) State() FilterState {
	return s.state
}

func (s *Session) Original() []models.Transaction {
	return s.original
}
