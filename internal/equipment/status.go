package equipment

import "fmt"

type Status string

const (
	StatusActive           Status = "active"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusDecommissioned   Status = "decommissioned"
	StatusReserved         Status = "reserved"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusUnderMaintenance, StatusDecommissioned, StatusReserved:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown equipment status: %s", s)
	}
}
