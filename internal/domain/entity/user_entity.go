package entity

import (
	"time"
)

// Role of a user account.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdvertiser Role = "advertiser"
	RoleAdmin      Role = "admin"
)

// Ban describes account suspension.
type Ban struct {
	IsBanned    bool       `bson:"isBanned" json:"isBanned"`
	BannedUntil *time.Time `bson:"bannedUntil,omitempty" json:"bannedUntil,omitempty"`
}

// User is the aggregate root of the ledger. Cart, address book and order
// history are embedded and owned by the user document.
//
// Password holds a bcrypt hash and is never serialized to clients.
type User struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Email    string  `bson:"email" json:"email"`
	Password string  `bson:"password" json:"-"`
	Role     Role    `bson:"role" json:"role"`
	Ban      Ban     `bson:"ban" json:"ban"`
	Credit   float64 `bson:"credit" json:"credit"`

	Cart    []CartItem `bson:"cart" json:"cart"`
	Address []Address  `bson:"address" json:"address"`
	Orders  []Order    `bson:"orders" json:"orders"`

	TotalSpent     float64    `bson:"totalSpent" json:"totalSpent"`
	MonthlySpent   float64    `bson:"monthlySpent" json:"monthlySpent"`
	LastSpentReset *time.Time `bson:"lastSpentReset,omitempty" json:"lastSpentReset,omitempty"`

	// LedgerVersion guards the order history and spend counters against
	// concurrent read-modify-write.
	LedgerVersion int64 `bson:"ledgerVersion" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CartItem references an ad and snapshots its price at the time it was added.
type CartItem struct {
	AdID     string    `bson:"ad" json:"ad"`
	AddedAt  time.Time `bson:"addedAt" json:"addedAt"`
	Price    float64   `bson:"price" json:"price"`
	Quantity int       `bson:"quantity" json:"quantity"`
}

// HasAd reports whether the cart already holds adID.
func (u *User) HasAd(adID string) bool {
	for _, it := range u.Cart {
		if it.AdID == adID {
			return true
		}
	}
	return false
}

// FindAddress returns the address entry with id, or nil.
func (u *User) FindAddress(id string) *Address {
	for i := range u.Address {
		if u.Address[i].ID == id {
			return &u.Address[i]
		}
	}
	return nil
}

// Spend returns the current spend accounting state.
func (u *User) Spend() SpendState {
	return SpendState{
		TotalSpent:     u.TotalSpent,
		MonthlySpent:   u.MonthlySpent,
		LastSpentReset: u.LastSpentReset,
	}
}

// Profile is the public projection of a user.
type Profile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         Role    `json:"role"`
	Credit       float64 `json:"credit"`
	TotalSpent   float64 `json:"totalSpent"`
	MonthlySpent float64 `json:"monthlySpent"`
}

func (u *User) Profile() Profile {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return Profile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         role,
		Credit:       u.Credit,
		TotalSpent:   u.TotalSpent,
		MonthlySpent: u.MonthlySpent,
	}
}
