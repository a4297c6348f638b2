package equipment

import "time"

type Equipment struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CategoryID       *string   `json:"categoryId,omitempty"`
	CategoryName     string    `json:"categoryName,omitempty"`
	Location         string    `json:"location,omitempty"`
	ModelNumber      string    `json:"modelNumber,omitempty"`
	SerialNumber     string    `json:"serialNumber,omitempty"`
	PurchaseYear     *int      `json:"purchaseYear,omitempty"`
	PurchaseCost     *string   `json:"purchaseCost,omitempty"`
	Status           Status    `json:"status"`
	OperatingNotes   string    `json:"operatingNotes,omitempty"`
	IsBookable       bool      `json:"isBookable"`
	RequiresApproval bool      `json:"requiresApproval"`
	CreatedBy        *string   `json:"createdBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BookingInfo is the read-only slice of the registry the booking rule consults.
type BookingInfo struct {
	ID               string
	Status           Status
	IsBookable       bool
	RequiresApproval bool
}
