package service

import (
	"crypto/rand"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// DefaultSections is the fixed set of sections a registry starts with.
var DefaultSections = []string{"A", "B"}

// Logger is the subset of the echo/gommon logger used by the registry.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// SectionPicker chooses the section a new ticket is placed in.
type SectionPicker func(sections []string) (string, error)

// CountsObserver receives the per-section ticket counts after every
// mutation, while the registry lock is still held, so successive calls
// arrive in mutation order.  It must not call back into the registry.
type CountsObserver func(counts map[string]int)

// Booking is a ticket copy together with the section holding it.
type Booking struct {
	model.Ticket
	Section string
}

// record is a ticket together with the section that holds it.  The section
// is kept alongside the seat code so it never has to be parsed back out.
type record struct {
	ticket  model.Ticket
	section string
}

// Registry owns every issued ticket.  It keeps the tickets in purchase
// order, indexes them per section and hands out seat numbers from a
// per-section counter that only ever grows.  All methods are safe for
// concurrent use; a single mutex serialises them.
type Registry struct {
	mu       sync.Mutex
	sections []string
	tickets  []*record
	bySec    map[string][]*record
	counters map[string]int

	pick    SectionPicker
	log     Logger
	observe CountsObserver
}

// Option customises a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the logger used for operation traces.
func WithLogger(l Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithSectionPicker replaces the uniform random section choice.
func WithSectionPicker(p SectionPicker) Option {
	return func(r *Registry) {
		if p != nil {
			r.pick = p
		}
	}
}

// WithCountsObserver registers o to receive section counts.  It is also
// called once from NewRegistry with every section at zero.
func WithCountsObserver(o CountsObserver) Option {
	return func(r *Registry) {
		r.observe = o
	}
}

// NewRegistry returns an empty registry with sections A and B, both
// counters at zero.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sections: slices.Clone(DefaultSections),
		bySec:    make(map[string][]*record, len(DefaultSections)),
		counters: make(map[string]int, len(DefaultSections)),
		pick:     randomSection,
		log:      nopLogger{},
	}
	for _, s := range r.sections {
		r.bySec[s] = nil
		r.counters[s] = 0
	}
	for _, opt := range opts {
		opt(r)
	}
	r.notify()
	return r
}

// randomSection draws uniformly from sections using crypto/rand.
func randomSection(sections []string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(sections))))
	if err != nil {
		return "", err
	}
	return sections[n.Int64()], nil
}

// Sections returns the section codes in their fixed order.
func (r *Registry) Sections() []string {
	return slices.Clone(r.sections)
}

func (r *Registry) known(section string) bool {
	_, ok := r.counters[section]
	return ok
}

// pickSection must be called with r.mu held.
func (r *Registry) pickSection() (string, error) {
	section, err := r.pick(r.sections)
	if err != nil {
		r.log.Errorf("registry: select random section: %v", err)
		return "", serviceErr(err, "failed to select a random section")
	}
	r.log.Infof("registry: randomly selected section %s", section)
	return section, nil
}

// nextSeat must be called with r.mu held.
func (r *Registry) nextSeat(section string) (string, error) {
	if !r.known(section) {
		r.log.Errorf("registry: generate seat for section %q: unknown section", section)
		return "", serviceErr(ErrUnknownSection, "failed to generate seat number for section %s", section)
	}
	r.counters[section]++
	seat := section + strconv.Itoa(r.counters[section])
	r.log.Infof("registry: generated seat %s for section %s", seat, section)
	return seat, nil
}

// Buy issues a ticket for u in a randomly chosen section.  The email is
// stored exactly as given.
func (r *Registry) Buy(u model.User) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Infof("registry: purchasing ticket for %s", u.Email)
	section, err := r.pickSection()
	if err != nil {
		return Booking{}, serviceErr(err, "failed to purchase ticket for user %s", u.Email)
	}
	seat, err := r.nextSeat(section)
	if err != nil {
		return Booking{}, serviceErr(err, "failed to purchase ticket for user %s", u.Email)
	}
	rec := &record{ticket: model.NewTicket(u, seat), section: section}
	r.tickets = append(r.tickets, rec)
	r.bySec[section] = append(r.bySec[section], rec)
	r.log.Infof("registry: ticket purchased for %s with seat %s", u.Email, seat)
	r.notify()
	return rec.booking(), nil
}

// find must be called with r.mu held.  It returns the first ticket in
// purchase order whose email matches case-insensitively.
func (r *Registry) find(email string) *record {
	for _, rec := range r.tickets {
		if strings.EqualFold(rec.ticket.User.Email, email) {
			return rec
		}
	}
	return nil
}

// FindByEmail returns the earliest ticket bought with email.  The boolean
// is false when no such ticket exists.
func (r *Registry) FindByEmail(email string) (model.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.find(email)
	if rec == nil {
		r.log.Infof("registry: no ticket found for %s", email)
		return model.Ticket{}, false
	}
	r.log.Infof("registry: ticket found for %s", email)
	return rec.ticket, true
}

// ListBySection returns the tickets seated in section, in the order they
// entered it.  An unknown section yields an empty result.
func (r *Registry) ListBySection(section string) []model.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := r.bySec[section]
	out := make([]model.Ticket, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.ticket)
	}
	if len(out) == 0 {
		r.log.Infof("registry: no tickets found for section %s", section)
	} else {
		r.log.Infof("registry: %d tickets found for section %s", len(out), section)
	}
	return out
}

// Remove cancels the ticket bought with email and returns it.  Seat
// numbers are not reclaimed.
func (r *Registry) Remove(email string) (Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(email)
	rec := r.find(email)
	if rec == nil {
		r.log.Infof("registry: user not found or could not be removed for %s", email)
		return Booking{}, false
	}
	r.tickets = without(r.tickets, rec)
	r.bySec[rec.section] = without(r.bySec[rec.section], rec)
	r.log.Infof("registry: user removed with email %s", email)
	r.notify()
	return rec.booking(), true
}

// ModifySeat moves the ticket bought with email into newSection under a
// freshly allocated seat.  It reports false, without touching any state,
// when the user has no ticket or newSection is unknown.  Moving into the
// ticket's current section still allocates a new seat.
func (r *Registry) ModifySeat(email, newSection string) (Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(email)
	r.log.Infof("registry: modifying seat for %s to section %s", email, newSection)
	rec := r.find(email)
	if rec == nil || !r.known(newSection) {
		r.log.Infof("registry: modification failed for %s, check email or section", email)
		return Booking{}, false, nil
	}
	seat, err := r.nextSeat(newSection)
	if err != nil {
		return Booking{}, false, serviceErr(err, "failed to modify seat for user with email %s", email)
	}
	r.bySec[rec.section] = without(r.bySec[rec.section], rec)
	rec.ticket.Seat = seat
	rec.section = newSection
	r.bySec[newSection] = append(r.bySec[newSection], rec)
	r.log.Infof("registry: seat modified for %s, now %s", email, seat)
	r.notify()
	return rec.booking(), true, nil
}

// Counts reports how many tickets each section currently holds.
func (r *Registry) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts()
}

// counts must be called with r.mu held.
func (r *Registry) counts() map[string]int {
	out := make(map[string]int, len(r.bySec))
	for s, recs := range r.bySec {
		out[s] = len(recs)
	}
	return out
}

// notify must be called with r.mu held (or before r is shared).
func (r *Registry) notify() {
	if r.observe != nil {
		r.observe(r.counts())
	}
}

func (rec *record) booking() Booking {
	return Booking{Ticket: rec.ticket, Section: rec.section}
}

// without returns recs minus target, preserving order.
func without(recs []*record, target *record) []*record {
	i := slices.Index(recs, target)
	if i < 0 {
		return recs
	}
	return slices.Delete(recs, i, i+1)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
