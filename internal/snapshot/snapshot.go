// Package snapshot reads an event ledger from a TOML or JSON file so it can
// be balanced and settled offline.
//
// A snapshot names participants by id and refers to them by that id from
// expenses and payments:
//
//	[event]
//	name = "Lisbon"
//	currency = "EUR"
//
//	[[participants]]
//	id = "ana"
//	name = "Ana"
//
//	[[expenses]]
//	description = "Dinner"
//	paid_by = "ana"
//	amount = "84.50"
//	participants = ["ana", "ben"]
//
// Amounts are strings to keep them exact.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/storage"
)

// ErrUnsupportedFormat is returned for files that are neither .toml nor .json.
var ErrUnsupportedFormat = errors.New("snapshot must be a .toml or .json file")

type Snapshot struct {
	Event        Event         `toml:"event" json:"event"`
	Participants []Participant `toml:"participants" json:"participants"`
	Expenses     []Expense     `toml:"expenses" json:"expenses"`
	Payments     []Payment     `toml:"payments" json:"payments"`
}

type Event struct {
	Name     string          `toml:"name" json:"name"`
	Currency string          `toml:"currency" json:"currency"`
	Budget   decimal.Decimal `toml:"budget" json:"budget"`
}

type Participant struct {
	ID     string          `toml:"id" json:"id"`
	Name   string          `toml:"name" json:"name"`
	Budget decimal.Decimal `toml:"budget" json:"budget"`
}

type Expense struct {
	ID           string                     `toml:"id" json:"id"`
	Description  string                     `toml:"description" json:"description"`
	Category     string                     `toml:"category" json:"category"`
	PaidBy       string                     `toml:"paid_by" json:"paid_by"`
	Amount       decimal.Decimal            `toml:"amount" json:"amount"`
	Participants []string                   `toml:"participants" json:"participants"`
	Split        string                     `toml:"split" json:"split"` // defaults to equal
	Custom       map[string]decimal.Decimal `toml:"custom" json:"custom"`
	Percentages  map[string]decimal.Decimal `toml:"percentages" json:"percentages"`
	Items        []Item                     `toml:"items" json:"items"`
}

type Item struct {
	Name       string          `toml:"name" json:"name"`
	Price      decimal.Decimal `toml:"price" json:"price"`
	AssignedTo []string        `toml:"assigned_to" json:"assigned_to"`
}

type Payment struct {
	From   string          `toml:"from" json:"from"`
	To     string          `toml:"to" json:"to"`
	Amount decimal.Decimal `toml:"amount" json:"amount"`
	Note   string          `toml:"note" json:"note"`
}

// Load reads a snapshot file, choosing the decoder by extension.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var s Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return &s, nil
}

// Ledger converts the snapshot into the ledger the calculator works on.
// Expenses and payments without an id are numbered in file order.
func (s *Snapshot) Ledger() (*storage.Ledger, error) {
	if s.Event.Name == "" {
		s.Event.Name = "snapshot"
	}
	currency := strings.ToUpper(s.Event.Currency)
	if currency == "" {
		currency = "USD"
	}

	ledger := &storage.Ledger{
		Event: &models.Event{ID: "snapshot", Name: s.Event.Name, Currency: currency, Budget: s.Event.Budget},
	}

	seen := make(map[string]bool, len(s.Participants))
	for i, p := range s.Participants {
		if p.ID == "" {
			return nil, fmt.Errorf("participant #%d has no id", i+1)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("participant id %q is used twice", p.ID)
		}
		seen[p.ID] = true

		name := p.Name
		if name == "" {
			name = p.ID
		}
		ledger.Participants = append(ledger.Participants, models.Participant{
			ID: p.ID, EventID: ledger.Event.ID, Name: name, IndividualBudget: p.Budget,
		})
	}

	for i, e := range s.Expenses {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("expense-%d", i+1)
		}
		split := models.SplitType(strings.ToLower(e.Split))
		if split == "" {
			split = models.SplitEqual
		}

		expense := models.Expense{
			ID:               id,
			EventID:          ledger.Event.ID,
			Description:      e.Description,
			Category:         e.Category,
			PaidBy:           e.PaidBy,
			Amount:           e.Amount,
			ParticipantIDs:   e.Participants,
			SplitType:        split,
			CustomSplits:     e.Custom,
			PercentageSplits: e.Percentages,
		}
		for j, item := range e.Items {
			expense.Items = append(expense.Items, models.ExpenseItem{
				ID:         fmt.Sprintf("%s-item-%d", id, j+1),
				Name:       item.Name,
				Price:      item.Price,
				AssignedTo: item.AssignedTo,
			})
		}
		ledger.Expenses = append(ledger.Expenses, expense)
	}

	for i, p := range s.Payments {
		ledger.Payments = append(ledger.Payments, models.Payment{
			ID:      fmt.Sprintf("payment-%d", i+1),
			EventID: ledger.Event.ID,
			FromID:  p.From,
			ToID:    p.To,
			Amount:  p.Amount,
			Note:    p.Note,
		})
	}
	return ledger, nil
}
