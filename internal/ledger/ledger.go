// Package ledger holds the ordered, name-keyed list of monthly commitments.
package ledger

import (
	"strings"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Ledger is an ordered set of commitments keyed by name.
// Insertion order is kept for display; names are unique.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	entries []model.Commitment
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// FromCommitments builds a ledger from cs, collapsing duplicate names
// last-write-wins at the first occurrence's position.
func FromCommitments(cs []model.Commitment) (*Ledger, error) {
	l := New()
	for _, c := range cs {
		if err := model.ValidateName(c.Name); err != nil {
			return nil, err
		}
		if err := model.ValidateAmount(c.Amount); err != nil {
			return nil, err
		}
		if c.Classification != model.Fixed {
			c.Classification = model.Flexible
		}
		c.Name = strings.TrimSpace(c.Name)
		if i := l.index(c.Name); i >= 0 {
			l.entries[i] = c
			continue
		}
		l.entries = append(l.entries, c)
	}
	return l, nil
}

// index finds name after trimming it, matching how names are stored.
func (l *Ledger) index(name string) int {
	name = strings.TrimSpace(name)
	for i, c := range l.entries {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Add appends name as a flexible commitment. An existing name has its
// amount overwritten in place instead.
func (l *Ledger) Add(name string, amount decimal.Decimal) error {
	if err := model.ValidateName(name); err != nil {
		return err
	}
	if err := model.ValidateAmount(amount); err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	if i := l.index(name); i >= 0 {
		l.entries[i].Amount = amount
		return nil
	}
	l.entries = append(l.entries, model.Commitment{
		Name:           name,
		Amount:         amount,
		Classification: model.Flexible,
	})
	return nil
}

// Delete removes every entry named name. Missing names are ignored.
func (l *Ledger) Delete(name string) {
	name = strings.TrimSpace(name)
	n := 0
	for _, c := range l.entries {
		if c.Name != name {
			l.entries[n] = c
			n++
		}
	}
	clear(l.entries[n:])
	l.entries = l.entries[:n]
}

// SetAmount overwrites the amount for name. Missing names are ignored.
func (l *Ledger) SetAmount(name string, amount decimal.Decimal) error {
	if err := model.ValidateAmount(amount); err != nil {
		return err
	}
	if i := l.index(name); i >= 0 {
		l.entries[i].Amount = amount
	}
	return nil
}

// Toggle flips name between fixed and flexible. It reports the new
// classification and whether name was found.
func (l *Ledger) Toggle(name string) (model.Classification, bool) {
	i := l.index(name)
	if i < 0 {
		return "", false
	}
	l.entries[i].Classification = l.entries[i].Classification.Toggled()
	return l.entries[i].Classification, true
}

// Rename replaces the entry old with one named newName at the same position.
// Another entry already called newName is dropped.
func (l *Ledger) Rename(old, newName string) error {
	if err := model.ValidateName(newName); err != nil {
		return err
	}
	old = strings.TrimSpace(old)
	newName = strings.TrimSpace(newName)

	i := l.index(old)
	if i < 0 || old == newName {
		return nil
	}
	renamed := l.entries[i]
	renamed.Name = newName

	if j := l.index(newName); j >= 0 {
		l.entries = append(l.entries[:j], l.entries[j+1:]...)
		if j < i {
			i--
		}
	}
	l.entries[i] = renamed
	return nil
}

// Sync replaces the whole ledger with entries, the presentation layer's
// current edited values. Validation is all-or-nothing. Duplicate names
// collapse last-write-wins; classification carries over by name and new
// names start flexible.
func (l *Ledger) Sync(entries []model.Entry) error {
	for _, e := range entries {
		if err := model.ValidateName(e.Name); err != nil {
			return err
		}
		if err := model.ValidateAmount(e.Amount); err != nil {
			return err
		}
	}

	classes := make(map[string]model.Classification, len(l.entries))
	for _, c := range l.entries {
		classes[c.Name] = c.Classification
	}

	next := make([]model.Commitment, 0, len(entries))
	pos := make(map[string]int, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if i, ok := pos[name]; ok {
			next[i].Amount = e.Amount
			continue
		}
		class, ok := classes[name]
		if !ok {
			class = model.Flexible
		}
		pos[name] = len(next)
		next = append(next, model.Commitment{Name: name, Amount: e.Amount, Classification: class})
	}

	l.entries = next
	return nil
}

// Get returns the commitment called name.
func (l *Ledger) Get(name string) (model.Commitment, bool) {
	if i := l.index(name); i >= 0 {
		return l.entries[i], true
	}
	return model.Commitment{}, false
}

// Entries returns a copy of the commitments in display order.
func (l *Ledger) Entries() []model.Commitment {
	out := make([]model.Commitment, len(l.entries))
	copy(out, l.entries)
	return out
}

// Names returns commitment names in display order.
func (l *Ledger) Names() []string {
	names := make([]string, len(l.entries))
	for i, c := range l.entries {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of commitments.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{entries: l.Entries()}
}
