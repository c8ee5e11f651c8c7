package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityRecipe ActivityType = "recipe"
	ActivityTech   ActivityType = "tech"
)

// ActivityKind names what a lab is producing. Exactly one of Recipe or Tech
// is set, matching Type.
type ActivityKind struct {
	Type   ActivityType `json:"type"`
	Recipe Recipe       `json:"recipe,omitempty"`
	Tech   TechItem     `json:"tech,omitempty"`
}

func RecipeActivity(r Recipe) ActivityKind {
	return ActivityKind{Type: ActivityRecipe, Recipe: r}
}

func TechActivity(t TechItem) ActivityKind {
	return ActivityKind{Type: ActivityTech, Tech: t}
}

func (k ActivityKind) Name() string {
	switch k.Type {
	case ActivityRecipe:
		return k.Recipe.Name()
	case ActivityTech:
		return k.Tech.Name()
	default:
		return fmt.Sprintf("activity(%s)", k.Type)
	}
}

func (k ActivityKind) Duration() time.Duration {
	switch k.Type {
	case ActivityRecipe:
		return k.Recipe.Duration()
	case ActivityTech:
		return k.Tech.Duration()
	default:
		return 0
	}
}

type LabActivity struct {
	ID          string       `json:"id"`
	Kind        ActivityKind `json:"kind"`
	DateStarted time.Time    `json:"date_started"`
	DateEnds    time.Time    `json:"date_ends"`
	LabID       string       `json:"lab_id,omitempty"`
	WorkerIDs   []string     `json:"worker_ids,omitempty"`
}

func NewLabActivity(kind ActivityKind, labID string, workerIDs []string, now time.Time) *LabActivity {
	return &LabActivity{
		ID:          uuid.NewString(),
		Kind:        kind,
		DateStarted: now,
		DateEnds:    now.Add(kind.Duration()),
		LabID:       labID,
		WorkerIDs:   append([]string(nil), workerIDs...),
	}
}

func (a *LabActivity) IsFinished(now time.Time) bool {
	return !now.Before(a.DateEnds)
}

func (a *LabActivity) Remaining(now time.Time) time.Duration {
	if a.IsFinished(now) {
		return 0
	}
	return a.DateEnds.Sub(now)
}

// Progress is the elapsed fraction in [0, 1].
func (a *LabActivity) Progress(now time.Time) float64 {
	total := a.DateEnds.Sub(a.DateStarted)
	if total <= 0 || a.IsFinished(now) {
		return 1
	}
	elapsed := now.Sub(a.DateStarted)
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}

type Lab struct {
	ID       string       `json:"id"`
	Activity *LabActivity `json:"activity,omitempty"`
}

func (l Lab) Busy() bool {
	return l.Activity != nil
}
