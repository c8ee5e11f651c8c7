package game

import (
	"slices"
	"testing"
	"time"
)

func TestValidateSkillsSumsAcrossWorkers(t *testing.T) {
	workers := []Person{
		{Name: "a", Skills: map[Skill]int{SkillMechanic: 1}},
		{Name: "b", Skills: map[Skill]int{SkillMechanic: 1, SkillHandy: 1}},
	}
	if missing := ValidateSkills(map[Skill]int{SkillMechanic: 2, SkillHandy: 1}, workers); len(missing) != 0 {
		t.Fatalf("expected team to qualify, missing %v", missing)
	}
	missing := ValidateSkills(map[Skill]int{SkillMechanic: 3, SkillMedic: 1, SkillHandy: 1}, workers)
	if !slices.Equal(missing, []Skill{SkillMechanic, SkillMedic}) {
		t.Fatalf("expected mechanic and medic missing, got %v", missing)
	}
	if missing := ValidateSkills(map[Skill]int{SkillBiologic: 1}, nil); len(missing) != 1 {
		t.Fatalf("expected empty team to miss biologic, got %v", missing)
	}
}

func TestPersonGeneratorDeterministic(t *testing.T) {
	a := NewPersonGenerator(77).GenerateN(5)
	b := NewPersonGenerator(77).GenerateN(5)
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Age != b[i].Age {
			t.Fatalf("expected same recruit %d for same seed, got %q/%d vs %q/%d", i, a[i].Name, a[i].Age, b[i].Name, b[i].Age)
		}
		if a[i].ID == b[i].ID {
			t.Fatalf("expected unique ids")
		}
	}
}

func TestGeneratedPeopleAreUsable(t *testing.T) {
	people := NewPersonGenerator(3).GenerateN(40)
	names := map[string]bool{}
	for _, p := range people {
		if names[p.Name] {
			t.Fatalf("expected unique names, %q repeated", p.Name)
		}
		names[p.Name] = true
		if p.Age < minCrewAge || p.Age > maxCrewAge {
			t.Fatalf("age %d out of range", p.Age)
		}
		if !p.Healthy || len(p.Skills) == 0 {
			t.Fatalf("expected healthy recruit with skills, got %+v", p)
		}
		for skill, level := range p.Skills {
			if level < 1 || level > maxSkillLevel {
				t.Fatalf("skill %s level %d out of range", skill, level)
			}
		}
	}
}

func TestPersonIsBusy(t *testing.T) {
	until := testNow.Add(time.Hour)
	p := Person{BusyUntil: &until}
	if !p.IsBusy(testNow) {
		t.Fatalf("expected busy before BusyUntil")
	}
	if p.IsBusy(until) {
		t.Fatalf("expected free at BusyUntil")
	}
	if (Person{}).IsBusy(testNow) {
		t.Fatalf("expected person without assignment to be free")
	}
}
