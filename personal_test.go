package adminmenu

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dmaurelc/go-adminmenu/pkg/activity"
)

func TestEnablePersonalCopiesPrimaryRole(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	stamp := time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC)
	org := New(
		WithIdentity(testIdentity()),
		WithActivityHooks(activity.Hooks{capture}),
		WithClock(func() time.Time { return stamp }),
	)
	if err := org.roles.Save(ctx, "editor", OverrideConfig{
		Order:  []string{"posts"},
		Hidden: []string{"comments"},
	}); err != nil {
		t.Fatalf("seed role: %v", err)
	}

	if err := org.EnablePersonal(ctx, "editor-1", "editor-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}

	record, ok, err := org.users.Load(ctx, "editor-1")
	if err != nil || !ok {
		t.Fatalf("expected record, ok=%v err=%v", ok, err)
	}
	if !record.Enabled || record.CopiedFromRole != "editor" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if !record.LastModified.Equal(stamp) {
		t.Fatalf("expected clock stamp, got %v", record.LastModified)
	}
	if !reflect.DeepEqual(record.Order, []string{"posts"}) {
		t.Fatalf("unexpected copied order: %v", record.Order)
	}

	// The copy is deep: mutating the role config later leaves the personal
	// record alone.
	roleCfg, _, _ := org.roles.Load(ctx, "editor")
	roleCfg.Order[0] = "changed"
	if record.Order[0] != "posts" {
		t.Fatalf("expected detached copy, got %v", record.Order)
	}

	if len(capture.Events) != 1 || capture.Events[0].Verb != "menu.personal.enabled" {
		t.Fatalf("unexpected events: %+v", capture.Events)
	}
	if capture.Events[0].Metadata["copied_from_role"] != "editor" {
		t.Fatalf("expected source role in metadata, got %+v", capture.Events[0].Metadata)
	}
}

func TestEnablePersonalPermissions(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))

	if err := org.EnablePersonal(ctx, "editor-1", "editor-2"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := org.EnablePersonal(ctx, "admin-1", "stranger"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected unknown user, got %v", err)
	}
	if err := org.EnablePersonal(ctx, "admin-1", "editor-2"); err != nil {
		t.Fatalf("expected privileged enable allowed, got %v", err)
	}
}

func TestResetPersonalRevertsToRoleFallback(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	org := New(
		WithIdentity(testIdentity()),
		WithActivityHooks(activity.Hooks{capture}),
	)
	if err := org.EnablePersonal(ctx, "editor-1", "editor-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}

	has, err := org.HasPersonalConfig(ctx, "editor-1")
	if err != nil || !has {
		t.Fatalf("expected personal config, has=%v err=%v", has, err)
	}

	if err := org.ResetPersonal(ctx, "editor-1", "editor-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	has, err = org.HasPersonalConfig(ctx, "editor-1")
	if err != nil || has {
		t.Fatalf("expected personal config gone, has=%v err=%v", has, err)
	}
	_, prov, err := org.ResolveWithProvenance(ctx, "editor-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if prov.Scope != ScopeRole {
		t.Fatalf("expected role fallback after reset, got %+v", prov)
	}

	// Resetting again is a no-op, not an error.
	if err := org.ResetPersonal(ctx, "editor-1", "editor-1"); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	want := []string{"menu.personal.enabled", "menu.personal.reset", "menu.personal.reset"}
	if verbs := capture.Verbs(); !reflect.DeepEqual(verbs, want) {
		t.Fatalf("unexpected event verbs: %v", verbs)
	}
}

func TestResetPersonalPermissions(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	if err := org.ResetPersonal(ctx, "editor-1", "editor-2"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestUsersWithPersonalConfigsFiltersEnabled(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	if err := org.users.Save(ctx, "editor-1", UserRecord{Enabled: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := org.users.Save(ctx, "editor-2", UserRecord{Enabled: false}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	users, err := org.UsersWithPersonalConfigs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(users, []string{"editor-1"}) {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestSaveLogo(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	org := New(
		WithIdentity(testIdentity()),
		WithActivityHooks(activity.Hooks{capture}),
	)

	if err := org.SaveLogo(ctx, "editor-1", "https://example.com/logo.png"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	if err := org.SaveLogo(ctx, "admin-1", "https://example.com/logo.png"); err != nil {
		t.Fatalf("save: %v", err)
	}
	logo, err := org.Logo(ctx)
	if err != nil || logo != "https://example.com/logo.png" {
		t.Fatalf("unexpected logo %q err=%v", logo, err)
	}

	// Unsafe references collapse to empty.
	if err := org.SaveLogo(ctx, "admin-1", "javascript:alert(1)"); err != nil {
		t.Fatalf("save: %v", err)
	}
	logo, err = org.Logo(ctx)
	if err != nil || logo != "" {
		t.Fatalf("expected sanitized empty logo, got %q err=%v", logo, err)
	}

	if len(capture.Events) != 2 || capture.Events[0].Verb != "menu.logo.saved" {
		t.Fatalf("unexpected events: %+v", capture.Events)
	}
}

func TestConfigPageForRoleMode(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	if err := org.roles.Save(ctx, "editor", OverrideConfig{Order: []string{"posts"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := org.users.Save(ctx, "editor-1", UserRecord{Enabled: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := org.ConfigPageFor(ctx, "editor-1", ScopeSelector{Kind: ScopeRole, Role: "editor"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	page, err := org.ConfigPageFor(ctx, "admin-1", ScopeSelector{Kind: ScopeRole, Role: "editor"})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Role != "editor" || !reflect.DeepEqual(page.Config.Order, []string{"posts"}) {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !reflect.DeepEqual(page.Roles, []string{"administrator", "editor", "author"}) {
		t.Fatalf("unexpected roles: %v", page.Roles)
	}
	if !reflect.DeepEqual(page.PersonalUsers, []string{"editor-1"}) {
		t.Fatalf("unexpected personal users: %v", page.PersonalUsers)
	}

	// Unknown roles fall back to the default role rather than failing.
	page, err = org.ConfigPageFor(ctx, "admin-1", ScopeSelector{Kind: ScopeRole, Role: "ghost"})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Role != DefaultRole {
		t.Fatalf("expected default role fallback, got %q", page.Role)
	}
}

func TestConfigPageForPersonalMode(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	if err := org.roles.Save(ctx, "editor", OverrideConfig{Order: []string{"posts"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	page, err := org.ConfigPageFor(ctx, "editor-1", ScopeSelector{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Mode != "personal" || page.HasPersonal {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !reflect.DeepEqual(page.Config.Order, []string{"posts"}) {
		t.Fatalf("expected role fallback config shown, got %v", page.Config.Order)
	}

	if err := org.EnablePersonal(ctx, "editor-1", "editor-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	page, err = org.ConfigPageFor(ctx, "editor-1", ScopeSelector{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !page.HasPersonal {
		t.Fatalf("expected personal flag set: %+v", page)
	}
}
