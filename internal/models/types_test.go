package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Errorf("expected 2024-06-01, got %s", d.String())
	}
}

func TestParseDate_InvalidMonth(t *testing.T) {
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestDate_Before(t *testing.T) {
	earlier := NewDate(2024, time.June, 1)
	later := NewDate(2024, time.June, 2)

	if !earlier.Before(later) {
		t.Error("expected 2024-06-01 to be before 2024-06-02")
	}
	if later.Before(earlier) {
		t.Error("expected 2024-06-02 not to be before 2024-06-01")
	}
	if earlier.Before(earlier) {
		t.Error("a date must not be before itself")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 1)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-06-01"` {
		t.Errorf("expected \"2024-06-01\", got %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(d) {
		t.Errorf("round trip mismatch: %s != %s", decoded, d)
	}
}

func TestParseTimeOfDay_ShortForm(t *testing.T) {
	parsed, err := ParseTimeOfDay("10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.String() != "10:00:00" {
		t.Errorf("expected 10:00:00, got %s", parsed.String())
	}
}

func TestTimeOfDay_Before(t *testing.T) {
	start, _ := ParseTimeOfDay("10:00:00")
	end, _ := ParseTimeOfDay("10:30:00")

	if !start.Before(end) {
		t.Error("expected 10:00 to be before 10:30")
	}
	if end.Before(start) {
		t.Error("expected 10:30 not to be before 10:00")
	}
}

func TestSlot_StateTransitions(t *testing.T) {
	slot := &Slot{
		DoctorID:  "doc-1",
		Status:    StatusAvailable,
		Available: true,
	}
	if !slot.Consistent() {
		t.Fatal("freshly created slot must be consistent")
	}

	slot.MarkConfirmed("user-7")
	if slot.Status != StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", slot.Status)
	}
	if slot.OccupantUserID == nil || *slot.OccupantUserID != "user-7" {
		t.Error("occupant not set on confirm")
	}
	if slot.Available {
		t.Error("available flag not cleared on confirm")
	}
	if !slot.Consistent() {
		t.Error("confirmed slot must be consistent")
	}

	slot.MarkAvailable()
	if slot.Status != StatusAvailable || slot.OccupantUserID != nil || !slot.Available {
		t.Error("release did not fully clear the slot")
	}
	if !slot.Consistent() {
		t.Error("released slot must be consistent")
	}
}

func TestSlot_ConsistentRejectsDrift(t *testing.T) {
	occupant := "user-7"

	confirmedNoOccupant := &Slot{Status: StatusConfirmed, Available: false}
	if confirmedNoOccupant.Consistent() {
		t.Error("CONFIRMED without occupant must be inconsistent")
	}

	availableWithOccupant := &Slot{Status: StatusAvailable, OccupantUserID: &occupant, Available: true}
	if availableWithOccupant.Consistent() {
		t.Error("AVAILABLE with occupant must be inconsistent")
	}

	unknownStatus := &Slot{Status: SlotStatus("Disponible"), Available: true}
	if unknownStatus.Consistent() {
		t.Error("unknown status value must be inconsistent")
	}
}
