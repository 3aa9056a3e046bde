package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence at which a recurring transaction produces occurrences.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Bimonthly Frequency = "bimonthly"
	Yearly    Frequency = "yearly"
)

// Frequencies lists every supported frequency in ascending period order.
var Frequencies = []Frequency{Daily, Weekly, Biweekly, Monthly, Bimonthly, Yearly}

// IsValid reports whether f is a supported frequency.
func (f Frequency) IsValid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// ErrUnknownFrequency is returned by Advance for frequencies it cannot step.
var ErrUnknownFrequency = errors.New("unknown frequency")

// ErrMalformedTemplate marks a recurring transaction that cannot be processed.
var ErrMalformedTemplate = errors.New("malformed recurring transaction")

// maxCatchUpCycles bounds a single catch-up so a corrupt next run date cannot spin forever.
const maxCatchUpCycles = 10000

// Advance returns the next due date after date for the given frequency.
// Month based steps clamp the day to the last day of the target month,
// so Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year).
func Advance(date time.Time, f Frequency) (time.Time, error) {
	switch f {
	case Daily:
		return date.AddDate(0, 0, 1), nil
	case Weekly:
		return date.AddDate(0, 0, 7), nil
	case Biweekly:
		return date.AddDate(0, 0, 14), nil
	case Monthly:
		return addMonthsClamped(date, 1), nil
	case Bimonthly:
		return addMonthsClamped(date, 2), nil
	case Yearly:
		return addMonthsClamped(date, 12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, f)
	}
}

func addMonthsClamped(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	// Day 1 never overflows, so time.Date only normalizes the month/year here.
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	if last := daysIn(target.Year(), target.Month(), date.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// RecurringTransaction is a template that periodically materializes transactions.
type RecurringTransaction struct {
	RecurringTransactionID string          `json:"recurringTransactionID"`
	UserID                 string          `json:"userID"`
	Description            string          `json:"description"`
	Category               string          `json:"category"`
	Type                   TransactionType `json:"type"`
	Amount                 decimal.Decimal `json:"amount"`
	Frequency              Frequency       `json:"frequency"`
	StartDate              time.Time       `json:"startDate"`
	NextRunDate            time.Time       `json:"nextRunDate"`
	EndDate                *time.Time      `json:"endDate,omitempty"`
	IsActive               bool            `json:"isActive"`
	AuditFields
}

// Validate checks the fields a user supplies when creating or editing a template.
func (r RecurringTransaction) Validate() error {
	if err := r.ValidateForProcessing(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	if len(r.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	if r.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

// ValidateForProcessing checks the minimum a template needs for the generator to run it.
func (r RecurringTransaction) ValidateForProcessing() error {
	if r.UserID == "" {
		return errors.New("owner is required")
	}
	if !r.Frequency.IsValid() {
		return fmt.Errorf("invalid frequency %q", r.Frequency)
	}
	if r.NextRunDate.IsZero() {
		return errors.New("next run date is required")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if !r.Type.IsValid() {
		return errors.New("type must be income or expense")
	}
	return nil
}

// IsExpired reports whether the next run date already lies beyond the end date.
func (r RecurringTransaction) IsExpired() bool {
	return r.EndDate != nil && r.NextRunDate.After(*r.EndDate)
}

// UpcomingDates returns up to count due dates starting at the template's next run date,
// stopping at the end date.
func (r RecurringTransaction) UpcomingDates(count int) ([]time.Time, error) {
	dates := make([]time.Time, 0, count)
	cursor := r.NextRunDate
	for len(dates) < count {
		if r.EndDate != nil && cursor.After(*r.EndDate) {
			break
		}
		dates = append(dates, cursor)
		next, err := Advance(cursor, r.Frequency)
		if err != nil {
			return nil, err
		}
		cursor = next
	}
	return dates, nil
}

// FirstRunOnOrAfter steps the next run date forward until it is no earlier than today.
// Cycles skipped this way are never materialized.
func (r RecurringTransaction) FirstRunOnOrAfter(today time.Time) (time.Time, error) {
	cursor := r.NextRunDate
	for steps := 0; cursor.Before(today); steps++ {
		if steps >= maxCatchUpCycles {
			return time.Time{}, fmt.Errorf("%w: more than %d cycles to skip since %s",
				ErrMalformedTemplate, maxCatchUpCycles, r.NextRunDate.Format(time.DateOnly))
		}
		next, err := Advance(cursor, r.Frequency)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrMalformedTemplate, err.Error())
		}
		cursor = next
	}
	return cursor, nil
}

// CatchUpPlan is the outcome of replaying a template's missed cycles up to a given day.
type CatchUpPlan struct {
	// ExpectedNextRunDate is the next run date the plan was computed from. Persisting the
	// plan is conditional on the stored value still being this one.
	ExpectedNextRunDate time.Time
	// Occurrences holds the due date of every cycle to materialize, oldest first.
	Occurrences []time.Time
	NextRunDate time.Time
	IsActive    bool
	// Deactivated is true when this plan flips the template to inactive.
	Deactivated bool
}

// HasChanges reports whether persisting the plan would alter anything.
func (p CatchUpPlan) HasChanges() bool {
	return len(p.Occurrences) > 0 || p.Deactivated
}

// PlanCatchUp computes every occurrence due on or before today and the template's final
// state. today must already be a calendar date (see CalendarDate).
//
// A cycle whose due date equals today is due. When the step past an occurrence lands after
// the end date, the template is deactivated and that first out-of-range date is kept as the
// next run date for audit.
func PlanCatchUp(r RecurringTransaction, today time.Time) (CatchUpPlan, error) {
	if err := r.ValidateForProcessing(); err != nil {
		return CatchUpPlan{}, fmt.Errorf("%w: %s", ErrMalformedTemplate, err.Error())
	}

	plan := CatchUpPlan{
		ExpectedNextRunDate: r.NextRunDate,
		NextRunDate:         r.NextRunDate,
		IsActive:            true,
	}

	if r.IsExpired() {
		plan.IsActive = false
		plan.Deactivated = true
		return plan, nil
	}

	cursor := r.NextRunDate
	for !cursor.After(today) {
		if len(plan.Occurrences) >= maxCatchUpCycles {
			return CatchUpPlan{}, fmt.Errorf("%w: more than %d cycles outstanding since %s",
				ErrMalformedTemplate, maxCatchUpCycles, r.NextRunDate.Format(time.DateOnly))
		}
		plan.Occurrences = append(plan.Occurrences, cursor)

		next, err := Advance(cursor, r.Frequency)
		if err != nil {
			return CatchUpPlan{}, fmt.Errorf("%w: %s", ErrMalformedTemplate, err.Error())
		}
		cursor = next

		if r.EndDate != nil && cursor.After(*r.EndDate) {
			plan.IsActive = false
			plan.Deactivated = true
			break
		}
	}
	plan.NextRunDate = cursor
	return plan, nil
}

// CatchUpSummary reports the outcome of one generator run.
type CatchUpSummary struct {
	RunAt                time.Time `json:"runAt"`
	Today                time.Time `json:"today"`
	TemplatesChecked     int       `json:"templatesChecked"`
	TemplatesProcessed   int       `json:"templatesProcessed"`
	TemplatesFailed      int       `json:"templatesFailed"`
	TemplatesSkipped     int       `json:"templatesSkipped"`
	TemplatesDeactivated int       `json:"templatesDeactivated"`
	TransactionsCreated  int       `json:"transactionsCreated"`
}
