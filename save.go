package adminmenu

import (
	"context"
	"fmt"

	"github.com/dmaurelc/go-adminmenu/pkg/activity"
)

// SaveInput carries the seven raw override fields of one save call. Fields
// are untyped on purpose: the save surface accepts whatever shape the host
// transport produced and relies on the sanitizers to coerce it.
type SaveInput struct {
	MenuOrder     any
	Separators    any
	HiddenItems   any
	RenamedItems  any
	FavoriteItems any
	SubmenuOrder  any
	CustomIcons   any
}

// sanitized coerces every raw field into the canonical configuration form.
func (in SaveInput) sanitized() OverrideConfig {
	return OverrideConfig{
		Order:        SanitizeIDList(in.MenuOrder),
		Separators:   SanitizeSeparators(in.Separators),
		Hidden:       SanitizeIDList(in.HiddenItems),
		Renamed:      SanitizeStringMap(in.RenamedItems),
		Favorites:    SanitizeIDList(in.FavoriteItems),
		SubmenuOrder: SanitizeNestedIDListMap(in.SubmenuOrder),
		CustomIcons:  SanitizeStringMap(in.CustomIcons),
	}
}

// SaveConfig sanitizes the raw fields and writes them to the selected scope,
// one field at a time. Each field write is its own read-modify-write against
// the store, so concurrent savers settle on last-write-wins per field and a
// failure aborts the remaining fields without rolling back written ones.
// The operation reports a single error, never partial success.
func (o *Organizer) SaveConfig(ctx context.Context, actorID string, sel ScopeSelector, in SaveInput) error {
	cfg := in.sanitized()

	switch sel.Kind {
	case ScopeRole:
		if !o.identity.IsPrivileged(actorID) {
			return ErrPermissionDenied
		}
		role := sel.Role
		if role == "" {
			role = DefaultRole
		}
		if !o.roleExists(role) {
			return fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
		for _, key := range FieldKeys {
			if err := o.setRoleField(ctx, role, key, cfg.fieldValue(key)); err != nil {
				return err
			}
		}
		o.emit(ctx, activity.BuildConfigSavedEvent(activity.MenuEventInput{
			ActorID:    actorID,
			Scope:      activity.ScopeContext{Kind: string(ScopeRole), Key: role},
			Fields:     FieldKeys,
			OccurredAt: o.now(),
		}))
		return nil

	case ScopeUser, "":
		target := sel.UserID
		if target == "" {
			target = actorID
		}
		if target != actorID {
			if !o.identity.IsPrivileged(actorID) {
				return ErrPermissionDenied
			}
			if len(o.identity.UserRoles(target)) == 0 {
				return fmt.Errorf("%w: %s", ErrUnknownUser, target)
			}
		}
		for _, key := range FieldKeys {
			if err := o.setUserField(ctx, target, key, cfg.fieldValue(key)); err != nil {
				return err
			}
		}
		o.emit(ctx, activity.BuildConfigSavedEvent(activity.MenuEventInput{
			ActorID:    actorID,
			UserID:     target,
			Scope:      activity.ScopeContext{Kind: string(ScopeUser), Key: target},
			Fields:     FieldKeys,
			OccurredAt: o.now(),
		}))
		return nil

	default:
		return fmt.Errorf("adminmenu: unsupported scope kind %q", sel.Kind)
	}
}

// setRoleField writes one field of a role config. Unlike reads, saves never
// consult the legacy source: a save addresses the role config directly.
func (o *Organizer) setRoleField(ctx context.Context, role, key string, value any) error {
	cfg, _, err := o.roles.Load(ctx, role)
	if err != nil {
		return fmt.Errorf("adminmenu: load role %q: %w", role, err)
	}
	cfg.setField(key, value)
	if err := o.roles.Save(ctx, role, cfg); err != nil {
		return fmt.Errorf("adminmenu: save role %q field %q: %w", role, key, err)
	}
	return nil
}

// setUserField writes one field of a user record, creating the record with
// enabled=true on first write and stamping last_modified on every write.
func (o *Organizer) setUserField(ctx context.Context, userID, key string, value any) error {
	record, ok, err := o.users.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("adminmenu: load user %q: %w", userID, err)
	}
	if !ok {
		record = UserRecord{Enabled: true}
	}
	record.setField(key, value)
	record.LastModified = o.now()
	if err := o.users.Save(ctx, userID, record); err != nil {
		return fmt.Errorf("adminmenu: save user %q field %q: %w", userID, key, err)
	}
	return nil
}

func (o *Organizer) roleExists(role string) bool {
	for _, known := range o.identity.Roles() {
		if known == role {
			return true
		}
	}
	return false
}
