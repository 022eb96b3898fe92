package generator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const opParse = "generator.parse"

// Candidate is the plan proposed by the generator, before it is persisted.
// Dates are ISO-8601 strings, either full RFC 3339 timestamps or plain dates.
type Candidate struct {
	Plan            CandidatePlan            `json:"plan" validate:"required"`
	Workouts        []CandidateWorkout       `json:"workouts" validate:"required,min=1,dive"`
	WeeklySchedules []CandidateScheduleEntry `json:"weeklySchedules" validate:"dive"`
}

type CandidatePlan struct {
	Name      string `json:"name" validate:"required,max=120"`
	Weeks     int    `json:"weeks" validate:"min=1,max=52"`
	StartDate string `json:"startDate,omitempty"`
}

// CandidateWorkout is referenced from the schedule by Ref, since it has no id yet.
type CandidateWorkout struct {
	Ref          string `json:"ref" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Instructor   string `json:"instructor,omitempty"`
	Duration     int    `json:"duration" validate:"min=0,max=600"`
	Description  string `json:"description,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	Kind         string `json:"kind" validate:"required,oneof=class workout"`
	ActivityType string `json:"activityType,omitempty"`
	ClassID      *int   `json:"classId,omitempty"`
	BookedDate   string `json:"bookedDate,omitempty"`
}

type CandidateScheduleEntry struct {
	WeekNumber int    `json:"weekNumber" validate:"min=1"`
	WorkoutRef string `json:"workoutRef" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names rather than Go names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and cross references.
func (c *Candidate) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, opParse, describe(err))
	}

	refs := make(map[string]struct{}, len(c.Workouts))
	for _, w := range c.Workouts {
		if _, dup := refs[w.Ref]; dup {
			return invalid(fmt.Sprintf("duplicate workout ref %q", w.Ref))
		}
		refs[w.Ref] = struct{}{}
	}
	for _, e := range c.WeeklySchedules {
		if e.WeekNumber > c.Plan.Weeks {
			return invalid(fmt.Sprintf("week %d is outside a %d week plan", e.WeekNumber, c.Plan.Weeks))
		}
		if _, ok := refs[e.WorkoutRef]; !ok {
			return invalid(fmt.Sprintf("schedule references unknown workout %q", e.WorkoutRef))
		}
	}
	return nil
}

// ToBatch validates the candidate and converts it into a batch ready for
// PlanBatchRepository. The new plan is active and owned by ownerID.
func (c *Candidate) ToBatch(ownerID primitive.ObjectID, generationID string) (*repository.PlanBatch, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start, err := parseDate(c.Plan.StartDate)
	if err != nil {
		return nil, err
	}
	plan := &domain.WorkoutPlan{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(c.Plan.Name),
		Weeks:        c.Plan.Weeks,
		GenerationID: generationID,
		IsActive:     true,
		StartDate:    start,
	}

	index := make(map[string]int, len(c.Workouts))
	workouts := make([]domain.Workout, 0, len(c.Workouts))
	for i, cw := range c.Workouts {
		booked, err := parseDate(cw.BookedDate)
		if err != nil {
			return nil, err
		}
		index[cw.Ref] = i
		workouts = append(workouts, domain.Workout{
			OwnerID:      ownerID,
			Name:         cw.Name,
			Instructor:   cw.Instructor,
			Duration:     cw.Duration,
			Description:  cw.Description,
			Difficulty:   cw.Difficulty,
			Kind:         domain.WorkoutKind(cw.Kind),
			ActivityType: cw.ActivityType,
			ClassID:      cw.ClassID,
			IsBooked:     booked != nil,
			BookedDate:   booked,
		})
	}

	schedule := make([]repository.BatchEntry, 0, len(c.WeeklySchedules))
	for _, e := range c.WeeklySchedules {
		schedule = append(schedule, repository.BatchEntry{
			WeekNumber:   e.WeekNumber,
			WorkoutIndex: index[e.WorkoutRef],
		})
	}

	return &repository.PlanBatch{Plan: plan, Workouts: workouts, Schedule: schedule}, nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate returns nil for an empty string.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid("AI returned invalid date format")
}

// IsInvalidCandidate reports whether err rejects a plan the generator returned, as opposed
// to invalid caller input.
func IsInvalidCandidate(err error) bool {
	var e *apperr.Error
	return errors.As(err, &e) && e.Kind == apperr.KindInvalidInput && e.Op == opParse
}

func invalid(msg string) error {
	return apperr.New(apperr.KindInvalidInput, opParse, msg)
}

func describe(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("AI returned an invalid plan: %s failed %q", fe.Namespace(), fe.Tag())
}
