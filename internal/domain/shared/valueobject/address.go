package valueobject

import (
	"fmt"
	"strings"
)

// Address is a value object representing a postal address.
// Orders keep a copy of it so later profile edits do not change history.
type Address struct {
	street  string
	city    string
	state   string
	zipCode string
	country string
}

// NewAddress creates a new Address. City and country are required.
func NewAddress(street, city, state, zipCode, country string) (Address, error) {
	addr := Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		country: strings.TrimSpace(country),
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if addr.country == "" {
		return Address{}, fmt.Errorf("country cannot be empty")
	}
	if len(addr.street) > 255 {
		return Address{}, fmt.Errorf("street cannot exceed 255 characters")
	}
	if len(addr.zipCode) > 20 {
		return Address{}, fmt.Errorf("zip code cannot exceed 20 characters")
	}
	return addr, nil
}

// RestoreAddress rebuilds an address from persisted columns without validation
func RestoreAddress(street, city, state, zipCode, country string) Address {
	return Address{street: street, city: city, state: state, zipCode: zipCode, country: country}
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

func (a Address) Street() string  { return a.street }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) ZipCode() string { return a.zipCode }
func (a Address) Country() string { return a.country }

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// String formats the address on one line, skipping empty parts
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.street, a.city, a.state, a.zipCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
