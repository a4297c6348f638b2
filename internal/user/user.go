package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(s) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), nil
	default:
		return "", fmt.Errorf("unknown approval status: %s", s)
	}
}

type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	FullName       string         `json:"fullName"`
	Role           Role           `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
	ApprovedBy     *string        `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty"`
	Department     string         `json:"department,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
