package entities

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// OwnerType discriminates which kind of party owns a wallet.
type OwnerType string

const (
	OwnerTypeCustomer   OwnerType = "customer"
	OwnerTypeRestaurant OwnerType = "restaurant"
)

// Valid reports whether t is one of the known owner types.
func (t OwnerType) Valid() bool {
	return t == OwnerTypeCustomer || t == OwnerTypeRestaurant
}

// OwnerRef is a tagged reference to the customer or restaurant whose wallet a
// transaction changes. The discriminator is persisted next to the id.
type OwnerRef struct {
	Type OwnerType `json:"type"`
	ID   uuid.UUID `json:"id"`
}

// CustomerRef references a customer's wallet.
func CustomerRef(id uuid.UUID) OwnerRef {
	return OwnerRef{Type: OwnerTypeCustomer, ID: id}
}

// RestaurantRef references a restaurant's wallet.
func RestaurantRef(id uuid.UUID) OwnerRef {
	return OwnerRef{Type: OwnerTypeRestaurant, ID: id}
}

// Valid reports whether the reference names a known owner type and a non-nil id.
func (o OwnerRef) Valid() bool {
	return o.Type.Valid() && o.ID != uuid.Nil
}

func (o OwnerRef) IsCustomer() bool { return o.Type == OwnerTypeCustomer }

func (o OwnerRef) IsRestaurant() bool { return o.Type == OwnerTypeRestaurant }

func (o OwnerRef) String() string {
	return fmt.Sprintf("%s:%s", o.Type, o.ID)
}

// Less orders references by type then id. Wallet locks are always taken in this order.
func (o OwnerRef) Less(other OwnerRef) bool {
	if o.Type != other.Type {
		return o.Type < other.Type
	}
	return o.ID.String() < other.ID.String()
}

// SortOwners returns the distinct owners in lock order.
func SortOwners(owners ...OwnerRef) []OwnerRef {
	seen := make(map[OwnerRef]struct{}, len(owners))
	out := make([]OwnerRef, 0, len(owners))
	for _, o := range owners {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// ParseOwnerType maps the path/query form of an owner type.
func ParseOwnerType(s string) (OwnerType, bool) {
	t := OwnerType(s)
	return t, t.Valid()
}

// SubjectType discriminates what a transaction is about.
type SubjectType string

const (
	SubjectTypeReservation SubjectType = "reservation"
	SubjectTypePromotion   SubjectType = "promotion"
	SubjectTypeCustomer    SubjectType = "customer"
)

// SubjectRef references the reservation, promotion or referred customer a transaction concerns.
type SubjectRef struct {
	Type SubjectType `json:"type"`
	ID   uuid.UUID   `json:"id"`
}

func ReservationSubject(id uuid.UUID) *SubjectRef {
	return &SubjectRef{Type: SubjectTypeReservation, ID: id}
}

func PromotionSubject(id uuid.UUID) *SubjectRef {
	return &SubjectRef{Type: SubjectTypePromotion, ID: id}
}

func ReferredCustomerSubject(id uuid.UUID) *SubjectRef {
	return &SubjectRef{Type: SubjectTypeCustomer, ID: id}
}
