package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
)

// ApprovalStatus is the admin review state of a vendor
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// Vendor is a seller account attached to a user. Only approved vendors may
// mutate their catalog or the status of orders containing their products.
type Vendor struct {
	shared.BaseEntity
	UserID         uuid.UUID
	StoreName      string
	ApprovalStatus ApprovalStatus
	ProductCount   int
}

// NewVendor creates a vendor awaiting approval
func NewVendor(userID uuid.UUID, storeName string) (*Vendor, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if storeName == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	return &Vendor{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		StoreName:      storeName,
		ApprovalStatus: ApprovalStatusPending,
	}, nil
}

// IsApproved reports whether the vendor may act on catalog and orders
func (v *Vendor) IsApproved() bool {
	return v.ApprovalStatus == ApprovalStatusApproved
}

// EnsureApproved returns VENDOR_NOT_APPROVED (an invalid-state error) unless approved.
// action completes the sentence "Only approved vendors can ...".
func (v *Vendor) EnsureApproved(action string) error {
	if v.IsApproved() {
		return nil
	}
	return shared.NewDomainError("VENDOR_NOT_APPROVED",
		fmt.Sprintf("Only approved vendors can %s. Your current status is: %s", action, v.ApprovalStatus))
}

// Approve marks the vendor as approved
func (v *Vendor) Approve() {
	v.ApprovalStatus = ApprovalStatusApproved
	v.Touch()
}

// Owns reports whether the product belongs to this vendor
func (v *Vendor) Owns(p *Product) bool {
	return p != nil && p.VendorID == v.ID
}

// AdjustProductCount applies delta to the product counter
func (v *Vendor) AdjustProductCount(delta int) error {
	next, err := applyCounterDelta(v.ProductCount, delta, "vendor")
	if err != nil {
		return err
	}
	v.ProductCount = next
	v.Touch()
	return nil
}
