package entity

import "strings"

// Address is an address book entry. City, State, PostalCode and MobileNo
// are required; Label is optional ("Home", "Work").
type Address struct {
	ID         string `bson:"_id" json:"id"`
	Label      string `bson:"label,omitempty" json:"label,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	MobileNo   string `bson:"mobileNo" json:"mobileNo"`
}

// Normalize trims every field in place.
func (a *Address) Normalize() {
	a.Label = strings.TrimSpace(a.Label)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.MobileNo = strings.TrimSpace(a.MobileNo)
}

// Complete reports whether all four location fields are present.
func (a Address) Complete() bool {
	return a.City != "" && a.State != "" && a.PostalCode != "" && a.MobileNo != ""
}

// Snapshot copies the address for embedding in an order. The copy carries
// no id, so it is never mistaken for a live address book entry.
func (a Address) Snapshot() DeliveryAddress {
	return DeliveryAddress{
		Label:      a.Label,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		MobileNo:   a.MobileNo,
	}
}

// AddressPatch carries the fields of a partial address update. Nil fields
// keep their stored value.
type AddressPatch struct {
	Label      *string
	City       *string
	State      *string
	PostalCode *string
	MobileNo   *string
}

// Empty reports whether the patch changes nothing.
func (p AddressPatch) Empty() bool {
	return p.Label == nil && p.City == nil && p.State == nil && p.PostalCode == nil && p.MobileNo == nil
}

// Normalize trims supplied values and reports whether any supplied
// location field ended up blank.
func (p *AddressPatch) Normalize() (blankLocation bool) {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(p.Label)
	for _, f := range []*string{p.City, p.State, p.PostalCode, p.MobileNo} {
		trim(f)
		if f != nil && *f == "" {
			blankLocation = true
		}
	}
	return blankLocation
}

// Apply writes the supplied fields onto a.
func (p AddressPatch) Apply(a *Address) {
	if p.Label != nil {
		a.Label = *p.Label
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.PostalCode != nil {
		a.PostalCode = *p.PostalCode
	}
	if p.MobileNo != nil {
		a.MobileNo = *p.MobileNo
	}
}
