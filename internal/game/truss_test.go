package game

import (
	"errors"
	"testing"
)

func TestTrussLayoutByIndex(t *testing.T) {
	components := NewTrussComponents()
	if len(components) != TrussSlots {
		t.Fatalf("expected %d slots, got %d", TrussSlots, len(components))
	}
	want := map[int]SlotType{0: SlotSolar, 5: SlotSolar, 6: SlotRadiator, 9: SlotRadiator, 10: SlotRoboArm, 11: SlotRoboArm}
	for index, slot := range want {
		if components[index].AllowedType != slot {
			t.Fatalf("expected slot %d to take %s, got %s", index, slot, components[index].AllowedType)
		}
	}
}

func TestSlotTypeForIndexPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for slot index %d", TrussSlots)
		}
	}()
	slotTypeForIndex(TrussSlots)
}

func TestInsertTypeCheckedAndExclusive(t *testing.T) {
	l := Ledger{Components: NewTrussComponents()}

	if err := l.Insert(6, SlotSolar, "panel"); !errors.Is(err, ErrSlotTypeMismatch) {
		t.Fatalf("expected ErrSlotTypeMismatch, got %v", err)
	}
	if err := l.Insert(0, SlotSolar, "panel-1"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := l.Insert(0, SlotSolar, "panel-2"); !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("expected ErrSlotOccupied, got %v", err)
	}
	if l.Components[0].ItemID != "panel-1" {
		t.Fatalf("expected first occupant kept, got %q", l.Components[0].ItemID)
	}
	if err := l.Insert(42, SlotSolar, "panel"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown slot, got %v", err)
	}
}

func TestRemoveChecksTypeAndOccupant(t *testing.T) {
	l := Ledger{Components: NewTrussComponents()}

	if _, err := l.Remove(10, SlotRoboArm); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
	if err := l.Insert(10, SlotRoboArm, "arm"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := l.Remove(10, SlotRadiator); !errors.Is(err, ErrSlotTypeMismatch) {
		t.Fatalf("expected ErrSlotTypeMismatch, got %v", err)
	}
	id, err := l.Remove(10, SlotRoboArm)
	if err != nil || id != "arm" {
		t.Fatalf("expected to remove arm, got %q %v", id, err)
	}
	if l.Components[10].Occupied() {
		t.Fatalf("expected slot 10 to be free")
	}
}

func TestFirstFreeSlotAndCount(t *testing.T) {
	l := Ledger{Components: NewTrussComponents()}
	for i := 0; i < 3; i++ {
		if err := l.Insert(i, SlotSolar, "p"); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if n := l.CountSlots(SlotSolar); n != 3 {
		t.Fatalf("expected 3 solar panels, got %d", n)
	}
	index, ok := l.FirstFreeSlot(SlotSolar)
	if !ok || index != 3 {
		t.Fatalf("expected first free solar slot 3, got %d %v", index, ok)
	}
	index, ok = l.FirstFreeSlot(SlotRadiator)
	if !ok || index != 6 {
		t.Fatalf("expected first free radiator slot 6, got %d %v", index, ok)
	}
}
