package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotUnlocked           = errors.New("tech not unlocked")
	ErrAlreadyStarted        = errors.New("research already started")
	ErrSlotOccupied          = errors.New("slot occupied")
	ErrSlotTypeMismatch      = errors.New("slot type mismatch")
	ErrSlotEmpty             = errors.New("slot empty")
	ErrInsufficientEnergy    = errors.New("not enough energy")
	ErrInsufficientResources = errors.New("not enough ingredients")
	ErrInsufficientSkills    = errors.New("not enough skills")
	ErrNoPerfectDNA          = errors.New("does not contain perfect DNA")
	ErrPopulationFull        = errors.New("population full")
	ErrPopulationEmpty       = errors.New("population empty")
	ErrLabBusy               = errors.New("lab busy")
	ErrLabIdle               = errors.New("lab has no activity")
	ErrNotFinished           = errors.New("activity not finished")
	ErrUnknownItem           = errors.New("unknown item")
	ErrNotFound              = errors.New("not found")
	ErrInsufficientFunds     = errors.New("not enough money")
	ErrNotOrderable          = errors.New("ingredient cannot be ordered")
	ErrOrderTooLarge         = errors.New("order too large")
	ErrWorkerBusy            = errors.New("worker busy")
)

// ResourceShortfallError lists every ingredient a request could not cover.
type ResourceShortfallError struct {
	Lacking []Ingredient
}

func (e *ResourceShortfallError) Error() string {
	names := make([]string, 0, len(e.Lacking))
	for _, ingredient := range e.Lacking {
		names = append(names, ingredient.Name())
	}
	return fmt.Sprintf("%v: %s", ErrInsufficientResources, strings.Join(names, ", "))
}

func (e *ResourceShortfallError) Is(target error) bool {
	return target == ErrInsufficientResources
}

type SkillShortfallError struct {
	Missing []Skill
}

func (e *SkillShortfallError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, skill := range e.Missing {
		names = append(names, string(skill))
	}
	return fmt.Sprintf("%v: %s", ErrInsufficientSkills, strings.Join(names, ", "))
}

func (e *SkillShortfallError) Is(target error) bool {
	return target == ErrInsufficientSkills
}
