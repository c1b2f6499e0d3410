package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/calculator"
	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/money"
	"github.com/mmynk/lessmo/pkg/api"
)

// Wire amounts are float64 with two decimals; they are rounded to cents on
// the way in and formatted from cents on the way out.

func toDecimal(f float64) decimal.Decimal {
	return money.FromFloat(f).Decimal()
}

func toFloat(d decimal.Decimal) float64 {
	return money.FromDecimal(d).Float64()
}

func toDecimalMap(m map[string]float64) map[string]decimal.Decimal {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = toDecimal(v)
	}
	return out
}

// toPercentMap keeps percentages at full precision; they are not money and
// must not be rounded to cents.
func toPercentMap(m map[string]float64) map[string]decimal.Decimal {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = decimal.NewFromFloat(v)
	}
	return out
}

func fromPercentMap(m map[string]decimal.Decimal) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v.InexactFloat64()
	}
	return out
}

func toFloatMap(m map[string]decimal.Decimal) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = toFloat(v)
	}
	return out
}

func toAPIEvent(e *models.Event) *api.Event {
	return &api.Event{
		ID:        e.ID,
		Name:      e.Name,
		Currency:  e.Currency,
		Budget:    toFloat(e.Budget),
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
}

func toAPIParticipant(p models.Participant) *api.Participant {
	return &api.Participant{
		ID:               p.ID,
		EventID:          p.EventID,
		UserID:           p.UserID,
		Name:             p.Name,
		IndividualBudget: toFloat(p.IndividualBudget),
		CurrentBalance:   toFloat(p.CurrentBalance),
		JoinedAt:         p.JoinedAt,
	}
}

func toAPIParticipants(participants []models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(participants))
	for i, p := range participants {
		out[i] = toAPIParticipant(p)
	}
	return out
}

// fromAPIExpense builds the model expense from a request. Server-owned fields
// (ID, timestamps, CreatedBy) are left to the caller.
func fromAPIExpense(e *api.Expense) models.Expense {
	expense := models.Expense{
		EventID:          e.EventID,
		Description:      e.Description,
		Category:         e.Category,
		PaidBy:           e.PaidBy,
		Amount:           toDecimal(e.Amount),
		ParticipantIDs:   e.ParticipantIDs,
		SplitType:        models.SplitType(e.SplitType),
		CustomSplits:     toDecimalMap(e.CustomSplits),
		PercentageSplits: toPercentMap(e.PercentageSplits),
	}
	if expense.SplitType == "" {
		expense.SplitType = models.SplitEqual
	}
	for _, item := range e.Items {
		expense.Items = append(expense.Items, models.ExpenseItem{
			ID:         item.ID,
			Name:       item.Name,
			Price:      toDecimal(item.Price),
			AssignedTo: item.AssignedTo,
		})
	}
	return expense
}

func toAPIExpense(e models.Expense) *api.Expense {
	out := &api.Expense{
		ID:               e.ID,
		EventID:          e.EventID,
		Description:      e.Description,
		Category:         e.Category,
		PaidBy:           e.PaidBy,
		Amount:           toFloat(e.Amount),
		ParticipantIDs:   e.ParticipantIDs,
		SplitType:        string(e.SplitType),
		CustomSplits:     toFloatMap(e.CustomSplits),
		PercentageSplits: fromPercentMap(e.PercentageSplits),
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	for _, item := range e.Items {
		out.Items = append(out.Items, api.ExpenseItem{
			ID:         item.ID,
			Name:       item.Name,
			Price:      toFloat(item.Price),
			AssignedTo: item.AssignedTo,
		})
	}
	return out
}

func toAPIPayment(p models.Payment) *api.Payment {
	return &api.Payment{
		ID:        p.ID,
		EventID:   p.EventID,
		FromID:    p.FromID,
		ToID:      p.ToID,
		Amount:    toFloat(p.Amount),
		Note:      p.Note,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func toAPIBalances(balances []calculator.Balance) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			TotalPaid:     toFloat(b.TotalPaid),
			TotalOwed:     toFloat(b.TotalOwed),
			Balance:       toFloat(b.Balance),
		}
	}
	return out
}

func toAPISettlements(settlements []calculator.Settlement, names map[string]string) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{
			FromID:   s.From,
			FromName: names[s.From],
			ToID:     s.To,
			ToName:   names[s.To],
			Amount:   toFloat(s.Amount),
		}
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
