package adminmenu

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func testIdentity() *StaticIdentity {
	return &StaticIdentity{
		Current: "admin-1",
		RolesByUser: map[string][]string{
			"admin-1":  {"administrator"},
			"editor-1": {"editor"},
			"editor-2": {"editor", "author"},
		},
		Privileged: map[string]bool{"admin-1": true},
		AllRoles:   []string{"administrator", "editor", "author"},
	}
}

func TestUserConfigPrefersEnabledPersonalRecord(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))

	roleCfg := OverrideConfig{Order: []string{"posts"}}
	if err := org.roles.Save(ctx, "editor", roleCfg); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	personal := UserRecord{
		OverrideConfig: OverrideConfig{Order: []string{"media"}},
		Enabled:        true,
		LastModified:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := org.users.Save(ctx, "editor-1", personal); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	cfg, prov, err := org.ResolveWithProvenance(ctx, "editor-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(cfg.Order, []string{"media"}) {
		t.Fatalf("expected personal config, got %v", cfg.Order)
	}
	if prov.Scope != ScopeUser || prov.Key != "editor-1" {
		t.Fatalf("unexpected provenance: %+v", prov)
	}
	if prov.LastModified != personal.LastModified {
		t.Fatalf("expected record timestamp in provenance, got %v", prov.LastModified)
	}
}

func TestUserConfigDisabledRecordFallsBackToRole(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))

	if err := org.roles.Save(ctx, "editor", OverrideConfig{Order: []string{"posts"}}); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	record := UserRecord{
		OverrideConfig: OverrideConfig{Order: []string{"media"}},
		Enabled:        false,
	}
	if err := org.users.Save(ctx, "editor-1", record); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	cfg, prov, err := org.ResolveWithProvenance(ctx, "editor-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(cfg.Order, []string{"posts"}) {
		t.Fatalf("expected role fallback, got %v", cfg.Order)
	}
	if prov.Scope != ScopeRole || prov.Key != "editor" {
		t.Fatalf("unexpected provenance: %+v", prov)
	}
}

func TestUserConfigPrimaryRoleWins(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	if err := org.roles.Save(ctx, "editor", OverrideConfig{Order: []string{"posts"}}); err != nil {
		t.Fatalf("seed editor: %v", err)
	}
	if err := org.roles.Save(ctx, "author", OverrideConfig{Order: []string{"media"}}); err != nil {
		t.Fatalf("seed author: %v", err)
	}

	cfg, err := org.UserConfig(ctx, "editor-2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(cfg.Order, []string{"posts"}) {
		t.Fatalf("expected primary role config, got %v", cfg.Order)
	}
}

func TestUserConfigUnknownUserResolvesEmpty(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))

	cfg, prov, err := org.ResolveWithProvenance(ctx, "stranger")
	if err != nil {
		t.Fatalf("expected no error for unknown user, got %v", err)
	}
	if !cfg.IsEmpty() {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if prov.Scope != ScopeDefault {
		t.Fatalf("unexpected provenance: %+v", prov)
	}
}

func TestRoleConfigSeedsFromLegacyOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	legacy := LegacySourceFunc(func(context.Context) (OverrideConfig, bool, error) {
		calls++
		return OverrideConfig{Order: []string{" posts ", "media"}}, true, nil
	})
	org := New(WithIdentity(testIdentity()), WithLegacySource(legacy))

	cfg, err := org.RoleConfig(ctx, "editor")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(cfg.Order, []string{"posts", "media"}) {
		t.Fatalf("expected sanitized legacy seed, got %v", cfg.Order)
	}

	// Seed persists: the second read is served by the store.
	if _, err := org.RoleConfig(ctx, "editor"); err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected legacy source consulted once, got %d", calls)
	}

	stored, ok, err := org.roles.Load(ctx, "editor")
	if err != nil || !ok {
		t.Fatalf("expected seed written to store, ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(stored.Order, []string{"posts", "media"}) {
		t.Fatalf("unexpected stored seed: %+v", stored)
	}
}

func TestRoleConfigWithoutLegacyResolvesEmpty(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	cfg, err := org.RoleConfig(ctx, "editor")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !cfg.IsEmpty() {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestResolveScopePermissions(t *testing.T) {
	ctx := context.Background()
	org := New(WithIdentity(testIdentity()))
	if err := org.roles.Save(ctx, "administrator", OverrideConfig{Order: []string{"settings"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("role scope requires privilege", func(t *testing.T) {
		_, err := org.ResolveScope(ctx, "editor-1", ScopeSelector{Kind: ScopeRole, Role: "editor"})
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected permission denied, got %v", err)
		}
	})

	t.Run("role scope defaults role", func(t *testing.T) {
		cfg, err := org.ResolveScope(ctx, "admin-1", ScopeSelector{Kind: ScopeRole})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if !reflect.DeepEqual(cfg.Order, []string{"settings"}) {
			t.Fatalf("expected default role config, got %v", cfg.Order)
		}
	})

	t.Run("user scope self allowed", func(t *testing.T) {
		if _, err := org.ResolveScope(ctx, "editor-1", ScopeSelector{Kind: ScopeUser, UserID: "editor-1"}); err != nil {
			t.Fatalf("expected self resolve allowed, got %v", err)
		}
	})

	t.Run("user scope other requires privilege", func(t *testing.T) {
		_, err := org.ResolveScope(ctx, "editor-1", ScopeSelector{Kind: ScopeUser, UserID: "editor-2"})
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected permission denied, got %v", err)
		}
		if _, err := org.ResolveScope(ctx, "admin-1", ScopeSelector{Kind: ScopeUser, UserID: "editor-2"}); err != nil {
			t.Fatalf("expected privileged resolve allowed, got %v", err)
		}
	})

	t.Run("zero selector is personal", func(t *testing.T) {
		if _, err := org.ResolveScope(ctx, "editor-1", ScopeSelector{}); err != nil {
			t.Fatalf("expected personal resolve, got %v", err)
		}
	})
}

func TestProvenanceJSONRoundTrip(t *testing.T) {
	prov := Provenance{
		Scope:        ScopeRole,
		Key:          "editor",
		Seeded:       true,
		LastModified: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	payload, err := prov.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ProvenanceFromJSON(payload)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.LastModified.Equal(prov.LastModified) || got.Scope != prov.Scope || got.Key != prov.Key || got.Seeded != prov.Seeded {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, prov)
	}
}
