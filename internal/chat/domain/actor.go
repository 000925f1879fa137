package domain

// ActorRole which side of a support conversation an actor is on
type ActorRole string

const (
	// RoleCustomer storefront visitor, anonymous or signed in
	RoleCustomer ActorRole = "customer"
	// RoleStaff back office account with admin privilege
	RoleStaff ActorRole = "staff"
)

// Valid report whether r is a known role
func (r ActorRole) Valid() bool {
	return r == RoleCustomer || r == RoleStaff
}

// IsStaff maps the role onto the persisted is_staff_authored column
func (r ActorRole) IsStaff() bool {
	return r == RoleStaff
}

// Other the opposite side of the conversation
func (r ActorRole) Other() ActorRole {
	if r == RoleStaff {
		return RoleCustomer
	}
	return RoleStaff
}

// RoleOf convert the persisted flag back to a role
func RoleOf(isStaff bool) ActorRole {
	if isStaff {
		return RoleStaff
	}
	return RoleCustomer
}

// ActorKey identifies one read cursor track inside a session.
// Staff keys always carry an account, customer keys may be anonymous.
type ActorKey struct {
	Role      ActorRole
	AccountID *string
}

// CustomerKey build a customer key, nil account means anonymous
func CustomerKey(accountID *string) ActorKey {
	return ActorKey{Role: RoleCustomer, AccountID: accountID}
}

// StaffKey build a staff key
func StaffKey(accountID string) ActorKey {
	return ActorKey{Role: RoleStaff, AccountID: &accountID}
}

// AccountKey the account id, or "" for the anonymous customer
func (k ActorKey) AccountKey() string {
	if k.AccountID == nil {
		return ""
	}
	return *k.AccountID
}

// Identity what the identity provider tells us about the caller
type Identity struct {
	AccountID *string
	IsStaff   bool
}

// Anonymous report whether the caller has no account
func (i Identity) Anonymous() bool {
	return i.AccountID == nil || *i.AccountID == ""
}

// Privileged a staff flag is only honoured together with an account
func (i Identity) Privileged() bool {
	return i.IsStaff && !i.Anonymous()
}
