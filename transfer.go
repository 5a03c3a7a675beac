package adminmenu

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dmaurelc/go-adminmenu/pkg/activity"
	"github.com/google/uuid"
)

// TransferDocument is the portable form of the full configuration: every
// role config plus the logo, tagged with a version, timestamp, and export id
// so imports can be traced back to their source.
type TransferDocument struct {
	RoleConfigs map[string]OverrideConfig `json:"role_configs,omitempty"`
	Logo        string                    `json:"logo,omitempty"`
	Version     string                    `json:"version,omitempty"`
	ExportedAt  string                    `json:"exported_at,omitempty"`
	ExportID    string                    `json:"export_id,omitempty"`
}

// ExportConfiguration snapshots every stored role config and the logo into a
// transfer document. Privileged callers only.
func (o *Organizer) ExportConfiguration(ctx context.Context, actorID string) (TransferDocument, error) {
	if !o.identity.IsPrivileged(actorID) {
		return TransferDocument{}, ErrPermissionDenied
	}

	keys, err := o.roles.Keys(ctx)
	if err != nil {
		return TransferDocument{}, fmt.Errorf("adminmenu: list roles: %w", err)
	}
	configs := make(map[string]OverrideConfig, len(keys))
	for _, role := range keys {
		cfg, ok, err := o.roles.Load(ctx, role)
		if err != nil {
			return TransferDocument{}, fmt.Errorf("adminmenu: load role %q: %w", role, err)
		}
		if ok {
			configs[role] = cfg.Clone()
		}
	}

	logo, err := o.Logo(ctx)
	if err != nil {
		return TransferDocument{}, err
	}

	doc := TransferDocument{
		RoleConfigs: configs,
		Logo:        logo,
		Version:     Version,
		ExportedAt:  o.now().UTC().Format(time.RFC3339),
		ExportID:    uuid.NewString(),
	}

	o.emit(ctx, activity.BuildConfigExportedEvent(activity.MenuEventInput{
		ActorID:  actorID,
		ObjectID: doc.ExportID,
		Metadata: map[string]any{
			"roles":   len(configs),
			"version": doc.Version,
		},
		OccurredAt: o.now(),
	}))
	return doc, nil
}

// EncodeTransferDocument serialises a document for download or storage.
func EncodeTransferDocument(doc TransferDocument) ([]byte, error) {
	return json.Marshal(doc)
}

// DecodeTransferDocument parses and sanitizes a transfer payload. Two wire
// shapes are accepted: the current form with a role_configs object, and the
// legacy flat form whose top-level fields describe a single configuration.
// A legacy payload upgrades into a role_configs document addressing only the
// default role; the legacy branch is taken only when the role_configs key is
// absent, so a present-but-malformed role_configs fails with
// ErrInvalidDocument rather than clobbering the default role. Anything that
// is not a JSON object fails with ErrInvalidDocument.
func DecodeTransferDocument(payload []byte) (TransferDocument, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return TransferDocument{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw == nil {
		return TransferDocument{}, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	doc := TransferDocument{
		Version:    stringify(raw["version"]),
		ExportedAt: stringify(raw["exported_at"]),
		ExportID:   stringify(raw["export_id"]),
		Logo:       SanitizeURL(stringify(raw["logo"])),
	}

	if rolesRaw, present := raw["role_configs"]; present {
		roles, ok := rolesRaw.(map[string]any)
		if !ok {
			return TransferDocument{}, fmt.Errorf("%w: role_configs is not an object", ErrInvalidDocument)
		}
		doc.RoleConfigs = make(map[string]OverrideConfig, len(roles))
		for role, cfgRaw := range roles {
			name := SanitizeText(role)
			if name == "" {
				continue
			}
			fields, _ := cfgRaw.(map[string]any)
			doc.RoleConfigs[name] = configFromRaw(fields)
		}
		return doc, nil
	}

	// Legacy flat layout: the seven fields sit at the top level and apply
	// to the default role only.
	doc.RoleConfigs = map[string]OverrideConfig{
		DefaultRole: configFromRaw(raw),
	}
	return doc, nil
}

// configFromRaw sanitizes the seven wire fields out of a decoded JSON object.
// Missing or malformed fields yield their empty canonical form.
func configFromRaw(raw map[string]any) OverrideConfig {
	if raw == nil {
		return OverrideConfig{}.Sanitized()
	}
	return OverrideConfig{
		Order:        SanitizeIDList(raw[FieldMenuOrder]),
		Separators:   SanitizeSeparators(raw[FieldSeparators]),
		Hidden:       SanitizeIDList(raw[FieldHiddenItems]),
		Renamed:      SanitizeStringMap(raw[FieldRenamedItems]),
		Favorites:    SanitizeIDList(raw[FieldFavoriteItems]),
		SubmenuOrder: SanitizeNestedIDListMap(raw[FieldSubmenuOrder]),
		CustomIcons:  SanitizeStringMap(raw[FieldCustomIcons]),
	}
}

// ImportConfiguration applies a decoded document: each role config replaces
// the stored config for that role, roles absent from the document stay
// untouched, and a non-empty logo replaces the stored one. Privileged
// callers only.
func (o *Organizer) ImportConfiguration(ctx context.Context, actorID string, doc TransferDocument) error {
	if !o.identity.IsPrivileged(actorID) {
		return ErrPermissionDenied
	}

	roles := make([]string, 0, len(doc.RoleConfigs))
	for role := range doc.RoleConfigs {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		cfg := doc.RoleConfigs[role].Sanitized()
		if err := o.roles.Save(ctx, role, cfg); err != nil {
			return fmt.Errorf("adminmenu: import role %q: %w", role, err)
		}
	}

	if logo := SanitizeURL(doc.Logo); logo != "" {
		if err := o.globals.Save(ctx, logoKey, logo); err != nil {
			return fmt.Errorf("adminmenu: import logo: %w", err)
		}
	}

	o.emit(ctx, activity.BuildConfigImportedEvent(activity.MenuEventInput{
		ActorID:  actorID,
		ObjectID: doc.ExportID,
		Metadata: map[string]any{
			"roles":   roles,
			"version": doc.Version,
		},
		OccurredAt: o.now(),
	}))
	return nil
}

// ImportPayload decodes and applies a raw transfer payload in one call.
func (o *Organizer) ImportPayload(ctx context.Context, actorID string, payload []byte) error {
	doc, err := DecodeTransferDocument(payload)
	if err != nil {
		return err
	}
	return o.ImportConfiguration(ctx, actorID, doc)
}
