package models

// SlotStatus represents the booking state of an appointment slot
type SlotStatus string

const (
	StatusAvailable SlotStatus = "AVAILABLE"
	StatusConfirmed SlotStatus = "CONFIRMED"
)

// Valid reports whether s is one of the two known states. Any other value
// is rejected at the storage boundary.
func (s SlotStatus) Valid() bool {
	return s == StatusAvailable || s == StatusConfirmed
}

// Slot represents a bookable appointment time block owned by one doctor.
// Available is stored alongside Status for interface compatibility with the
// upstream services; every write path derives it from Status so the two
// columns cannot drift apart.
type Slot struct {
	BaseModel
	DoctorID       string     `gorm:"size:36;index;not null" json:"doctorId"`
	Date           Date       `gorm:"type:date;index" json:"date"`
	StartTime      TimeOfDay  `gorm:"type:time" json:"startTime"`
	EndTime        TimeOfDay  `gorm:"type:time" json:"endTime"`
	Status         SlotStatus `gorm:"size:20;default:'AVAILABLE'" json:"status"`
	OccupantUserID *string    `gorm:"size:36;index" json:"occupantUserId"`
	Available      bool       `gorm:"default:true" json:"available"`
}

// MarkConfirmed assigns the occupant and flips the slot to CONFIRMED.
func (s *Slot) MarkConfirmed(userID string) {
	s.OccupantUserID = &userID
	s.Status = StatusConfirmed
	s.Available = false
}

// MarkAvailable clears the occupant and flips the slot back to AVAILABLE.
func (s *Slot) MarkAvailable() {
	s.OccupantUserID = nil
	s.Status = StatusAvailable
	s.Available = true
}

// Consistent reports whether status, occupant and the available flag agree:
// CONFIRMED iff an occupant is set iff available is false.
func (s *Slot) Consistent() bool {
	if !s.Status.Valid() {
		return false
	}
	if s.Status == StatusConfirmed {
		return s.OccupantUserID != nil && !s.Available
	}
	return s.OccupantUserID == nil && s.Available
}
