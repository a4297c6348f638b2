package booking

import "time"

type Booking struct {
	ID                 string     `json:"id"`
	EquipmentID        string     `json:"equipmentId"`
	UserID             string     `json:"userId"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	Status             Status     `json:"status"`
	Purpose            string     `json:"purpose,omitempty"`
	AdminNotes         string     `json:"adminNotes,omitempty"`
	ApprovedBy         *string    `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	// Joined display fields for list/detail views.
	EquipmentName     string `json:"equipmentName,omitempty"`
	EquipmentLocation string `json:"equipmentLocation,omitempty"`
	UserName          string `json:"userName,omitempty"`
	UserEmail         string `json:"userEmail,omitempty"`
	ApprovedByName    string `json:"approvedByName,omitempty"`
}

// Slot is the trimmed view returned by the availability query for rendering a
// calendar.
type Slot struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    Status    `json:"status"`
	Purpose   string    `json:"purpose,omitempty"`
}
