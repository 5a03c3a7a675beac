package adminmenu

import (
	"context"
	"fmt"

	"github.com/dmaurelc/go-adminmenu/pkg/activity"
)

// HasPersonalConfig reports whether the user has an enabled personal
// configuration.
func (o *Organizer) HasPersonalConfig(ctx context.Context, userID string) (bool, error) {
	record, ok, err := o.users.Load(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("adminmenu: load user %q: %w", userID, err)
	}
	return ok && record.Enabled, nil
}

// EnablePersonal turns on a personal configuration for the target user by
// copying their primary role's config. Callers may enable their own personal
// configuration; enabling someone else's requires privilege.
func (o *Organizer) EnablePersonal(ctx context.Context, actorID, userID string) error {
	if userID != actorID && !o.identity.IsPrivileged(actorID) {
		return ErrPermissionDenied
	}
	roles := o.identity.UserRoles(userID)
	if len(roles) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	return o.CopyRoleToUser(ctx, actorID, roles[0], userID)
}

// CopyRoleToUser snapshots the role's configuration into the user's personal
// record and enables it. The copy is deep: later edits to either side do not
// affect the other.
func (o *Organizer) CopyRoleToUser(ctx context.Context, actorID, role, userID string) error {
	if userID != actorID && !o.identity.IsPrivileged(actorID) {
		return ErrPermissionDenied
	}
	cfg, err := o.RoleConfig(ctx, role)
	if err != nil {
		return err
	}
	record := UserRecord{
		OverrideConfig: cfg.Clone(),
		Enabled:        true,
		CopiedFromRole: role,
		LastModified:   o.now(),
	}
	if err := o.users.Save(ctx, userID, record); err != nil {
		return fmt.Errorf("adminmenu: save user %q: %w", userID, err)
	}
	o.emit(ctx, activity.BuildPersonalEnabledEvent(activity.MenuEventInput{
		ActorID:    actorID,
		UserID:     userID,
		Scope:      activity.ScopeContext{Kind: string(ScopeUser), Key: userID},
		Metadata:   map[string]any{"copied_from_role": role},
		OccurredAt: o.now(),
	}))
	return nil
}

// ResetPersonal deletes the user's personal configuration so role fallback
// applies again. Resetting a user without a personal configuration is a
// no-op, not an error.
func (o *Organizer) ResetPersonal(ctx context.Context, actorID, userID string) error {
	if userID != actorID && !o.identity.IsPrivileged(actorID) {
		return ErrPermissionDenied
	}
	if err := o.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("adminmenu: delete user %q: %w", userID, err)
	}
	o.emit(ctx, activity.BuildPersonalResetEvent(activity.MenuEventInput{
		ActorID:    actorID,
		UserID:     userID,
		Scope:      activity.ScopeContext{Kind: string(ScopeUser), Key: userID},
		OccurredAt: o.now(),
	}))
	return nil
}

// UsersWithPersonalConfigs returns the IDs of users holding an enabled
// personal configuration, sorted.
func (o *Organizer) UsersWithPersonalConfigs(ctx context.Context) ([]string, error) {
	keys, err := o.users.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("adminmenu: list users: %w", err)
	}
	enabled := make([]string, 0, len(keys))
	for _, key := range keys {
		record, ok, err := o.users.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("adminmenu: load user %q: %w", key, err)
		}
		if ok && record.Enabled {
			enabled = append(enabled, key)
		}
	}
	return enabled, nil
}

const logoKey = "logo"

// SaveLogo stores the custom logo reference. Only privileged callers may
// change it; the reference passes through URL sanitization first.
func (o *Organizer) SaveLogo(ctx context.Context, actorID, logoURL string) error {
	if !o.identity.IsPrivileged(actorID) {
		return ErrPermissionDenied
	}
	clean := SanitizeURL(logoURL)
	if err := o.globals.Save(ctx, logoKey, clean); err != nil {
		return fmt.Errorf("adminmenu: save logo: %w", err)
	}
	o.emit(ctx, activity.BuildLogoSavedEvent(activity.MenuEventInput{
		ActorID:    actorID,
		ObjectID:   logoKey,
		OccurredAt: o.now(),
	}))
	return nil
}

// Logo returns the stored logo reference, empty when none is set.
func (o *Organizer) Logo(ctx context.Context) (string, error) {
	value, _, err := o.globals.Load(ctx, logoKey)
	if err != nil {
		return "", fmt.Errorf("adminmenu: load logo: %w", err)
	}
	return value, nil
}

// ConfigPage is the view model backing an editor surface for one scope.
type ConfigPage struct {
	Mode          string
	Role          string
	UserID        string
	HasPersonal   bool
	Config        OverrideConfig
	Roles         []string
	PersonalUsers []string
	Logo          string
}

// ConfigPageFor assembles the editor view model for the requested mode.
// Mode "role" edits sel.Role (privileged only), mode "user" edits another
// user's personal config (privileged only), mode "personal" edits the
// caller's own.
func (o *Organizer) ConfigPageFor(ctx context.Context, actorID string, sel ScopeSelector) (ConfigPage, error) {
	page := ConfigPage{Mode: string(sel.Kind)}

	logo, err := o.Logo(ctx)
	if err != nil {
		return ConfigPage{}, err
	}
	page.Logo = logo

	switch sel.Kind {
	case ScopeRole:
		if !o.identity.IsPrivileged(actorID) {
			return ConfigPage{}, ErrPermissionDenied
		}
		role := sel.Role
		if role == "" || !o.roleExists(role) {
			role = DefaultRole
		}
		cfg, err := o.RoleConfig(ctx, role)
		if err != nil {
			return ConfigPage{}, err
		}
		page.Role = role
		page.Config = cfg
		page.Roles = o.identity.Roles()
		users, err := o.UsersWithPersonalConfigs(ctx)
		if err != nil {
			return ConfigPage{}, err
		}
		page.PersonalUsers = users
		return page, nil

	case ScopeUser:
		target := sel.UserID
		if target == "" {
			target = actorID
		}
		if target != actorID && !o.identity.IsPrivileged(actorID) {
			return ConfigPage{}, ErrPermissionDenied
		}
		return o.personalPage(ctx, page, target)

	case ScopeDefault, "":
		page.Mode = "personal"
		return o.personalPage(ctx, page, actorID)

	default:
		return ConfigPage{}, fmt.Errorf("adminmenu: unsupported scope kind %q", sel.Kind)
	}
}

func (o *Organizer) personalPage(ctx context.Context, page ConfigPage, userID string) (ConfigPage, error) {
	page.UserID = userID
	record, ok, err := o.users.Load(ctx, userID)
	if err != nil {
		return ConfigPage{}, fmt.Errorf("adminmenu: load user %q: %w", userID, err)
	}
	if ok && record.Enabled {
		page.HasPersonal = true
		page.Config = record.OverrideConfig.Clone()
		return page, nil
	}
	cfg, err := o.UserConfig(ctx, userID)
	if err != nil {
		return ConfigPage{}, err
	}
	page.Config = cfg
	return page, nil
}
