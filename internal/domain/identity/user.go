package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,50}$`)

// User is a storefront account. Credentials and token issuance live in the
// identity provider; this core only needs who the user is and where they live.
type User struct {
	shared.BaseEntity
	Username string
	Email    string
	Address  valueobject.Address
}

// NewUser creates a user
func NewUser(username, email string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of letters, digits, '.', '_' or '-'")
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   username,
		Email:      strings.TrimSpace(email),
	}, nil
}

// SetAddress replaces the profile address
func (u *User) SetAddress(addr valueobject.Address) {
	u.Address = addr
}

// UserAddress is an entry of a user's address book
type UserAddress struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Label     string
	Address   valueobject.Address
	IsDefault bool
}

// NewUserAddress creates an address book entry
func NewUserAddress(userID uuid.UUID, label string, addr valueobject.Address, isDefault bool) (*UserAddress, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if addr.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if label == "" {
		label = "HOME"
	}
	return &UserAddress{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Label:      strings.ToUpper(label),
		Address:    addr,
		IsDefault:  isDefault,
	}, nil
}

// BelongsTo reports whether the entry is owned by userID
func (a *UserAddress) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}
