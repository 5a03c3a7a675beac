package adminmenu

// IdentityProvider answers the identity questions the core needs: who is
// acting, which roles a user holds (primary role first), whether a user may
// manage shared configuration, and which roles exist at all. Lookups are
// treated as cheap and infallible; an unknown user simply has no roles.
type IdentityProvider interface {
	CurrentUserID() string
	UserRoles(userID string) []string
	IsPrivileged(userID string) bool
	Roles() []string
}

// StaticIdentity is an IdentityProvider backed by fixed maps, for tests and
// examples.
type StaticIdentity struct {
	Current     string
	RolesByUser map[string][]string
	Privileged  map[string]bool
	AllRoles    []string
}

// CurrentUserID implements IdentityProvider.
func (s StaticIdentity) CurrentUserID() string { return s.Current }

// UserRoles implements IdentityProvider.
func (s StaticIdentity) UserRoles(userID string) []string {
	return append([]string(nil), s.RolesByUser[userID]...)
}

// IsPrivileged implements IdentityProvider.
func (s StaticIdentity) IsPrivileged(userID string) bool { return s.Privileged[userID] }

// Roles implements IdentityProvider.
func (s StaticIdentity) Roles() []string { return append([]string(nil), s.AllRoles...) }

// nopIdentity is the default when no provider is configured: nobody is
// known and nobody is privileged.
type nopIdentity struct{}

func (nopIdentity) CurrentUserID() string     { return "" }
func (nopIdentity) UserRoles(string) []string { return nil }
func (nopIdentity) IsPrivileged(string) bool  { return false }
func (nopIdentity) Roles() []string           { return nil }
