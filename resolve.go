package adminmenu

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Provenance reports which scope of the fallback chain supplied an effective
// configuration.
type Provenance struct {
	Scope        ScopeKind `json:"scope"`
	Key          string    `json:"key,omitempty"`
	Seeded       bool      `json:"seeded,omitempty"`
	LastModified time.Time `json:"last_modified,omitzero"`
}

// ToJSON serialises the provenance for logging or transport helpers.
func (p Provenance) ToJSON() ([]byte, error) {
	type alias Provenance
	return json.Marshal(alias(p))
}

// ProvenanceFromJSON deserialises a payload previously produced by ToJSON.
func ProvenanceFromJSON(payload []byte) (Provenance, error) {
	type alias Provenance
	var p alias
	if err := json.Unmarshal(payload, &p); err != nil {
		return Provenance{}, err
	}
	return Provenance(p), nil
}

// RoleConfig returns the stored configuration for role. On the first read of
// a role with no stored config, a legacy single-scope configuration (when a
// LegacySource is wired) seeds the role with a one-time store write; after
// that the role config persists independently. A role with neither stored
// nor legacy config resolves to the empty configuration.
func (o *Organizer) RoleConfig(ctx context.Context, role string) (OverrideConfig, error) {
	cfg, _, err := o.roleConfigSeeded(ctx, role)
	return cfg, err
}

func (o *Organizer) roleConfigSeeded(ctx context.Context, role string) (OverrideConfig, bool, error) {
	cfg, ok, err := o.roles.Load(ctx, role)
	if err != nil {
		return OverrideConfig{}, false, fmt.Errorf("adminmenu: load role %q: %w", role, err)
	}
	if ok {
		return cfg, false, nil
	}
	if o.legacy == nil {
		return OverrideConfig{}, false, nil
	}
	seed, found, err := o.legacy.LegacyConfig(ctx)
	if err != nil {
		return OverrideConfig{}, false, fmt.Errorf("adminmenu: load legacy config: %w", err)
	}
	if !found {
		return OverrideConfig{}, false, nil
	}
	seed = seed.Sanitized()
	if err := o.roles.Save(ctx, role, seed); err != nil {
		return OverrideConfig{}, false, fmt.Errorf("adminmenu: seed role %q: %w", role, err)
	}
	return seed, true, nil
}

// UserConfig walks the fallback chain for userID: the personal record when
// present and enabled, else the user's primary role config, else the empty
// configuration. Unknown users resolve to empty, never to an error.
func (o *Organizer) UserConfig(ctx context.Context, userID string) (OverrideConfig, error) {
	cfg, _, err := o.userConfigProvenance(ctx, userID)
	return cfg, err
}

func (o *Organizer) userConfigProvenance(ctx context.Context, userID string) (OverrideConfig, Provenance, error) {
	record, ok, err := o.users.Load(ctx, userID)
	if err != nil {
		return OverrideConfig{}, Provenance{}, fmt.Errorf("adminmenu: load user %q: %w", userID, err)
	}
	if ok && record.Enabled {
		return record.OverrideConfig, Provenance{
			Scope:        ScopeUser,
			Key:          userID,
			LastModified: record.LastModified,
		}, nil
	}
	roles := o.identity.UserRoles(userID)
	if len(roles) > 0 {
		cfg, seeded, err := o.roleConfigSeeded(ctx, roles[0])
		if err != nil {
			return OverrideConfig{}, Provenance{}, err
		}
		return cfg, Provenance{Scope: ScopeRole, Key: roles[0], Seeded: seeded}, nil
	}
	return OverrideConfig{}, Provenance{Scope: ScopeDefault}, nil
}

// Resolve returns the effective configuration for userID in personal mode.
func (o *Organizer) Resolve(ctx context.Context, userID string) (OverrideConfig, error) {
	return o.UserConfig(ctx, userID)
}

// ResolveWithProvenance is Resolve plus a report of which scope supplied the
// result.
func (o *Organizer) ResolveWithProvenance(ctx context.Context, userID string) (OverrideConfig, Provenance, error) {
	return o.userConfigProvenance(ctx, userID)
}

// ResolveScope resolves an explicitly selected scope on behalf of callerID.
// Role scope requires privilege; user scope requires privilege or self. A
// zero selector behaves like Resolve for the caller.
func (o *Organizer) ResolveScope(ctx context.Context, callerID string, sel ScopeSelector) (OverrideConfig, error) {
	switch sel.Kind {
	case ScopeRole:
		if !o.identity.IsPrivileged(callerID) {
			return OverrideConfig{}, ErrPermissionDenied
		}
		role := sel.Role
		if role == "" {
			role = DefaultRole
		}
		return o.RoleConfig(ctx, role)
	case ScopeUser:
		target := sel.UserID
		if target == "" {
			target = callerID
		}
		if target != callerID && !o.identity.IsPrivileged(callerID) {
			return OverrideConfig{}, ErrPermissionDenied
		}
		return o.UserConfig(ctx, target)
	default:
		return o.UserConfig(ctx, callerID)
	}
}
