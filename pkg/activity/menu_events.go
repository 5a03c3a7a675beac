package activity

import (
	"strings"
	"time"
)

// ScopeContext captures the configuration scope an event applies to.
type ScopeContext struct {
	Kind string
	Key  string
}

// MenuEventInput describes the common fields for menu configuration
// lifecycle events.
type MenuEventInput struct {
	ActorID    string
	UserID     string
	ObjectID   string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	Scope      ScopeContext
	Fields     []string
	OccurredAt time.Time
}

// BuildConfigSavedEvent constructs an event for a completed multi-field save.
func BuildConfigSavedEvent(input MenuEventInput) Event {
	return buildMenuEvent("menu.config.saved", "menu.config", input)
}

// BuildConfigImportedEvent constructs an event for an applied import.
func BuildConfigImportedEvent(input MenuEventInput) Event {
	return buildMenuEvent("menu.config.imported", "menu.config", input)
}

// BuildConfigExportedEvent constructs an event for an export.
func BuildConfigExportedEvent(input MenuEventInput) Event {
	return buildMenuEvent("menu.config.exported", "menu.config", input)
}

// BuildPersonalEnabledEvent constructs an event for a personal configuration
// being enabled or copied from a role.
func BuildPersonalEnabledEvent(input MenuEventInput) Event {
	return buildMenuEvent("menu.personal.enabled", "menu.personal", input)
}

// BuildPersonalResetEvent constructs an event for a personal configuration
// reset.
func BuildPersonalResetEvent(input MenuEventInput) Event {
	return buildMenuEvent("menu.personal.reset", "menu.personal", input)
}

// BuildLogoSavedEvent constructs an event for a logo change.
func BuildLogoSavedEvent(input MenuEventInput) Event {
	return buildMenuEvent("menu.logo.saved", "menu.logo", input)
}

func buildMenuEvent(verb, objectType string, input MenuEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Scope.Kind != "" {
		metadata = ensureMetadata(metadata)
		metadata["scope_kind"] = input.Scope.Kind
		if input.Scope.Key != "" {
			metadata["scope_key"] = input.Scope.Key
		}
	}
	if len(input.Fields) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["fields"] = append([]string{}, input.Fields...)
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" && input.Scope.Kind != "" {
		objectID = strings.TrimSpace(input.Scope.Kind + "/" + input.Scope.Key)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Recipients: recipients,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
