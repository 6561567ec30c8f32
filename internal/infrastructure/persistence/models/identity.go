package models

import (
	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/identity"
	"github.com/multimart/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email    string         `gorm:"type:varchar(200)"`
	Address  AddressColumns `gorm:"embedded;embeddedPrefix:address_"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity: m.BaseModel.ToDomain(),
		Username:   m.Username,
		Email:      m.Email,
		Address:    m.Address.ToDomain(),
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.Email = u.Email
	m.Address = AddressColumnsFromDomain(u.Address)
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserAddressModel is the persistence model for an address book entry.
type UserAddressModel struct {
	BaseModel
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Label     string         `gorm:"type:varchar(20);not null;default:'HOME'"`
	Address   AddressColumns `gorm:"embedded"`
	IsDefault bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserAddressModel) TableName() string {
	return "user_addresses"
}

// ToDomain converts the persistence model to a domain UserAddress entity.
func (m *UserAddressModel) ToDomain() *identity.UserAddress {
	return &identity.UserAddress{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		UserID:     m.UserID,
		Label:      m.Label,
		Address:    m.Address.ToDomain(),
		IsDefault:  m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain UserAddress entity.
func (m *UserAddressModel) FromDomain(a *identity.UserAddress) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.UserID = a.UserID
	m.Label = a.Label
	m.Address = AddressColumnsFromDomain(a.Address)
	m.IsDefault = a.IsDefault
}

// UserAddressModelFromDomain creates a new persistence model from a domain UserAddress entity.
func UserAddressModelFromDomain(a *identity.UserAddress) *UserAddressModel {
	m := &UserAddressModel{}
	m.FromDomain(a)
	return m
}
