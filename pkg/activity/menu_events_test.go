package activity

import (
	"testing"
	"time"
)

func TestBuildConfigSavedEventCarriesScopeAndFields(t *testing.T) {
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	event := BuildConfigSavedEvent(MenuEventInput{
		ActorID:    "actor-1",
		Scope:      ScopeContext{Kind: "role", Key: "editor"},
		Fields:     []string{"menu_order", "hidden_items"},
		OccurredAt: now,
	})

	if event.Verb != "menu.config.saved" || event.ObjectType != "menu.config" {
		t.Fatalf("unexpected verb/type: %+v", event)
	}
	if event.ObjectID != "role/editor" {
		t.Fatalf("expected scope object id, got %q", event.ObjectID)
	}
	if event.Metadata["scope_kind"] != "role" || event.Metadata["scope_key"] != "editor" {
		t.Fatalf("expected scope metadata, got %+v", event.Metadata)
	}
	fields, ok := event.Metadata["fields"].([]string)
	if !ok || len(fields) != 2 || fields[0] != "menu_order" {
		t.Fatalf("expected fields metadata, got %v", event.Metadata["fields"])
	}
	if event.OccurredAt != now {
		t.Fatalf("expected occurred_at preserved, got %v", event.OccurredAt)
	}
}

func TestBuildMenuEventObjectIDFallsBackToType(t *testing.T) {
	event := BuildConfigExportedEvent(MenuEventInput{ActorID: "actor-1"})
	if event.ObjectID != "menu.config" {
		t.Fatalf("expected object type fallback, got %q", event.ObjectID)
	}
	if event.Metadata != nil {
		t.Fatalf("expected no metadata without scope or fields, got %+v", event.Metadata)
	}
}

func TestBuildMenuEventDetachesInputs(t *testing.T) {
	meta := map[string]any{"copied_from_role": "editor"}
	fields := []string{"menu_order"}
	event := BuildPersonalEnabledEvent(MenuEventInput{
		ActorID:  "actor-1",
		UserID:   "user-2",
		Scope:    ScopeContext{Kind: "user", Key: "user-2"},
		Metadata: meta,
		Fields:   fields,
	})

	if event.Verb != "menu.personal.enabled" || event.ObjectType != "menu.personal" {
		t.Fatalf("unexpected verb/type: %+v", event)
	}
	event.Metadata["copied_from_role"] = "changed"
	if meta["copied_from_role"] != "editor" {
		t.Fatalf("expected input metadata untouched, got %+v", meta)
	}
	got := event.Metadata["fields"].([]string)
	got[0] = "changed"
	if fields[0] != "menu_order" {
		t.Fatalf("expected input fields untouched, got %+v", fields)
	}
}

func TestBuildPersonalResetEventVerb(t *testing.T) {
	event := BuildPersonalResetEvent(MenuEventInput{
		UserID: "user-2",
		Scope:  ScopeContext{Kind: "user", Key: "user-2"},
	})
	if event.Verb != "menu.personal.reset" {
		t.Fatalf("unexpected verb: %q", event.Verb)
	}
	if event.ObjectID != "user/user-2" {
		t.Fatalf("unexpected object id: %q", event.ObjectID)
	}
}

func TestBuildLogoSavedEventVerb(t *testing.T) {
	event := BuildLogoSavedEvent(MenuEventInput{ActorID: "actor-1", ObjectID: "logo"})
	if event.Verb != "menu.logo.saved" || event.ObjectType != "menu.logo" || event.ObjectID != "logo" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
