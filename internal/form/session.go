package form

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/ledger"
	"github.com/lemo-maschinenbau/reisekosten/internal/money"
	"github.com/lemo-maschinenbau/reisekosten/internal/rates"
	"github.com/lemo-maschinenbau/reisekosten/internal/totals"
	"github.com/lemo-maschinenbau/reisekosten/internal/trip"
)

// SignatureRole identifies one of the two signature captures.
type SignatureRole string

const (
	RoleEmployee SignatureRole = "employee"
	RoleManager  SignatureRole = "manager"
)

// ParseSignatureRole validates a role string from a request path.
func ParseSignatureRole(s string) (SignatureRole, error) {
	switch SignatureRole(s) {
	case RoleEmployee, RoleManager:
		return SignatureRole(s), nil
	}
	return "", fmt.Errorf("unknown signature role %q", s)
}

// ErrNoSuchEntry mirrors the ledger sentinel for callers that only
// import the form package.
var ErrNoSuchEntry = ledger.ErrNoSuchEntry

// Session is one live form. Every mutating call recomputes the derived
// fields before it returns, under the session mutex, so no caller can
// observe a half-updated form.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu     sync.Mutex
	state  State
	table  *rates.Table
	logger *zap.Logger
}

// NewSession creates an empty form with one blank cost row and zeroed
// sum displays.
func NewSession(table *rates.Table, logger *zap.Logger) *Session {
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		table:     table,
		logger:    logger,
	}
	s.state.Costs = ledger.New()
	s.recomputeTotals()
	return s
}

// Apply writes a partial field update and recomputes everything the
// changed fields feed into. Field order matters: a country selection
// refills the rates from the table, while explicit rate and day-count
// values in the same update win over the lookup, matching a user who
// edits a field after picking a country.
func (s *Session) Apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setIf(&s.state.Name, u.Name)
	setIf(&s.state.PersonnelNumber, u.PersonnelNumber)
	setIf(&s.state.Project, u.Project)
	setIf(&s.state.Location, u.Location)
	setIf(&s.state.SigningDate, u.SigningDate)

	if u.Country != nil {
		s.applyCountry(*u.Country)
	}

	datesTouched := u.DepartureDate != nil || u.ReturnDate != nil
	setIf(&s.state.DepartureDate, u.DepartureDate)
	setIf(&s.state.ReturnDate, u.ReturnDate)
	if datesTouched {
		s.recomputeBreakdown()
	}

	setIf(&s.state.FullDays, u.FullDays)
	setIf(&s.state.TravelDays, u.TravelDays)
	setIf(&s.state.Overnights, u.Overnights)
	setIf(&s.state.RateFull, u.RateFull)
	setIf(&s.state.RatePartial, u.RatePartial)
	setIf(&s.state.RateOvernight, u.RateOvernight)

	s.recomputeTotals()
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// applyCountry fills the three rate fields from the table, or blanks
// them when the key is empty or unknown.
func (s *Session) applyCountry(key string) {
	s.state.Country = key
	rs, ok := s.table.Lookup(key)
	if !ok {
		s.state.RateFull = ""
		s.state.RatePartial = ""
		s.state.RateOvernight = ""
		return
	}
	s.state.RateFull = money.Format(rs.Full)
	s.state.RatePartial = money.Format(rs.Partial)
	s.state.RateOvernight = money.Format(rs.Overnight)
}

// recomputeBreakdown refreshes the day fields from the travel dates.
// An invalid range blanks all four fields; it never leaves stale
// counts behind.
func (s *Session) recomputeBreakdown() {
	bd := trip.Resolve(s.state.DepartureDate, s.state.ReturnDate)
	if bd == nil {
		s.state.TotalDays = ""
		s.state.FullDays = ""
		s.state.TravelDays = ""
		s.state.Overnights = ""
		return
	}
	s.state.TotalDays = strconv.Itoa(bd.TotalDays)
	s.state.FullDays = strconv.Itoa(bd.FullDays)
	s.state.TravelDays = strconv.Itoa(bd.TravelDays)
	s.state.Overnights = strconv.Itoa(bd.Overnights)
}

// recomputeTotals rebuilds all four sums from the current fields and
// cost rows. Always a full recomputation.
func (s *Session) recomputeTotals() {
	snap := totals.Compute(
		totals.DayFields{
			Full:       s.state.FullDays,
			Travel:     s.state.TravelDays,
			Overnights: s.state.Overnights,
		},
		totals.RateFields{
			Full:      s.state.RateFull,
			Partial:   s.state.RatePartial,
			Overnight: s.state.RateOvernight,
		},
		s.state.Costs.Snapshot(),
	)
	s.state.SumMeals = money.Format(snap.Meals)
	s.state.SumOvernights = money.Format(snap.Overnights)
	s.state.SumOtherCosts = money.Format(snap.OtherCosts)
	s.state.SumTotal = money.Format(snap.Total)
}

// AddCost appends a blank cost row.
func (s *Session) AddCost() ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.state.Costs.Add()
	s.recomputeTotals()
	return e
}

// RemoveCost deletes a cost row and refreshes the sums.
func (s *Session) RemoveCost(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Costs.Remove(id); err != nil {
		return err
	}
	s.recomputeTotals()
	return nil
}

// UpdateCost changes the description and/or amount of a cost row.
func (s *Session) UpdateCost(id uuid.UUID, description, amount *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if description != nil {
		if err := s.state.Costs.UpdateDescription(id, *description); err != nil {
			return err
		}
	}
	if amount != nil {
		if err := s.state.Costs.UpdateAmount(id, *amount); err != nil {
			return err
		}
	}
	s.recomputeTotals()
	return nil
}

// SetSignature stores an opaque PNG capture for the given role.
func (s *Session) SetSignature(role SignatureRole, png []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := make([]byte, len(png))
	copy(img, png)
	switch role {
	case RoleEmployee:
		s.state.SignatureEmployee = img
	case RoleManager:
		s.state.SignatureManager = img
	}
}

// ClearSignature wipes the capture for the given role.
func (s *Session) ClearSignature(role SignatureRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch role {
	case RoleEmployee:
		s.state.SignatureEmployee = nil
	case RoleManager:
		s.state.SignatureManager = nil
	}
}

// Reset restores the pristine form: all fields empty, one blank cost
// row, signatures cleared, sums reading "0,00".
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	costs := s.state.Costs
	costs.Reset()
	s.state = State{Costs: costs}
	s.recomputeTotals()
	s.logger.Debug("form reset", zap.String("session_id", s.ID.String()))
}

// Document takes a consistent snapshot for the exporters and the mail
// draft.
func (s *Session) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Document{
		Name:            s.state.Name,
		PersonnelNumber: s.state.PersonnelNumber,
		Project:         s.state.Project,
		Location:        s.state.Location,
		SigningDate:     s.state.SigningDate,
		DepartureDate:   s.state.DepartureDate,
		ReturnDate:      s.state.ReturnDate,
		Country:         s.state.Country,
		RateFull:        s.state.RateFull,
		RatePartial:     s.state.RatePartial,
		RateOvernight:   s.state.RateOvernight,
		TotalDays:       s.state.TotalDays,
		FullDays:        s.state.FullDays,
		TravelDays:      s.state.TravelDays,
		Overnights:      s.state.Overnights,
		SumMeals:        s.state.SumMeals,
		SumOvernights:   s.state.SumOvernights,
		SumOtherCosts:   s.state.SumOtherCosts,
		SumTotal:        s.state.SumTotal,
		Costs:           s.state.Costs.Snapshot(),

		SignatureEmployee: s.state.SignatureEmployee,
		SignatureManager:  s.state.SignatureManager,
	}
}

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live sessions. Sessions exist only in memory; a
// restart discards them.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	table    *rates.Table
	logger   *zap.Logger
}

// NewManager creates an empty session registry backed by the given
// rate table.
func NewManager(table *rates.Table, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		table:    table,
		logger:   logger,
	}
}

// Create opens a new form session.
func (m *Manager) Create() *Session {
	s := NewSession(m.table, m.logger)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Info("form session created", zap.String("session_id", s.ID.String()))
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
