package domain

type Role string

const (
	RoleCustomer     Role = "CUSTOMER"
	RoleOrderManager Role = "ORDER_MANAGER"
	RoleAdmin        Role = "ADMIN"
)

func (r Role) CanManageOrders() bool {
	return r == RoleOrderManager || r == RoleAdmin
}

// Actor is the authenticated principal attached to a request by the
// upstream auth gate.
type Actor struct {
	ID   uint
	Role Role
}
