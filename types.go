package adminmenu

import "time"

// CSS class tags attached to synthetic menu entries. The renderer owns what
// these classes look like; the merge engine only assigns them.
const (
	// SeparatorClass marks an entry as a non-navigable separator. Entries
	// carrying it are excluded from positional bookkeeping during separator
	// injection.
	SeparatorClass = "menu-separator"
	// FavoritesSeparatorClass tags the header separator opening the
	// favorites group.
	FavoritesSeparatorClass = "favorites-separator"
	// FavoriteClass tags cloned entries inside the favorites group.
	FavoriteClass = "favorite-item"
	// SimpleSeparatorClass tags injected separators without a label.
	SimpleSeparatorClass = "simple-separator"
	// TextSeparatorClass tags injected separators that carry a label; the
	// label itself travels out-of-band as a SeparatorStyle.
	TextSeparatorClass = "separator-with-text"
)

// FavoriteMarker is prefixed to the title of entries cloned into the
// favorites group.
const FavoriteMarker = "★ "

// FavoritesTitle is the display title of the favorites header separator.
const FavoritesTitle = "Favorites"

// DefaultRole receives legacy single-scope configuration on import.
const DefaultRole = "administrator"

// Version tags exported transfer documents.
const Version = "1.5.0"

// Separator kinds.
const (
	SeparatorSimple = "simple"
	SeparatorText   = "text"
)

// Wire keys for the seven override fields. Saves write one field at a time
// under these keys; the transfer document uses them verbatim.
const (
	FieldMenuOrder     = "menu_order"
	FieldSeparators    = "separators"
	FieldHiddenItems   = "hidden_items"
	FieldRenamedItems  = "renamed_items"
	FieldFavoriteItems = "favorite_items"
	FieldSubmenuOrder  = "submenu_order"
	FieldCustomIcons   = "custom_icons"
)

// FieldKeys lists the override field keys in save order.
var FieldKeys = []string{
	FieldMenuOrder,
	FieldSeparators,
	FieldHiddenItems,
	FieldRenamedItems,
	FieldFavoriteItems,
	FieldSubmenuOrder,
	FieldCustomIcons,
}

// MenuItem is one top-level entry of the baseline menu tree supplied by the
// host. The merge engine reads and rewrites these for a single render pass;
// it never owns their lifecycle.
type MenuItem struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Capability string        `json:"capability,omitempty"`
	IconRef    string        `json:"icon,omitempty"`
	CSSClasses []string      `json:"css_classes,omitempty"`
	Children   []SubmenuItem `json:"children,omitempty"`
}

// IsSeparator reports whether the entry carries the separator class.
func (m MenuItem) IsSeparator() bool {
	for _, class := range m.CSSClasses {
		if class == SeparatorClass {
			return true
		}
	}
	return false
}

// withClass returns a copy of m with class appended to a detached class slice.
func (m MenuItem) withClass(class string) MenuItem {
	classes := make([]string, 0, len(m.CSSClasses)+1)
	classes = append(classes, m.CSSClasses...)
	m.CSSClasses = append(classes, class)
	return m
}

// SubmenuItem is one child entry below a top-level menu item.
type SubmenuItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Capability string `json:"capability,omitempty"`
}

// Separator positions a typed marker between menu entries. Position indexes
// into the sequence of non-separator entries at injection time: the marker is
// inserted before the entry at that ordinal, or appended when the ordinal is
// out of range.
type Separator struct {
	Position int    `json:"position"`
	Kind     string `json:"type,omitempty"`
	Text     string `json:"text,omitempty"`
}

// OverrideConfig is the unit of configuration for one scope (a role name or a
// user id). Every field is optional; ids are free-form strings that the merge
// step matches against the baseline, silently skipping unknowns so a config
// stays usable when the menu it was written against changes.
type OverrideConfig struct {
	Order        []string            `json:"menu_order,omitempty"`
	Separators   []Separator         `json:"separators,omitempty"`
	Hidden       []string            `json:"hidden_items,omitempty"`
	Renamed      map[string]string   `json:"renamed_items,omitempty"`
	Favorites    []string            `json:"favorite_items,omitempty"`
	SubmenuOrder map[string][]string `json:"submenu_order,omitempty"`
	CustomIcons  map[string]string   `json:"custom_icons,omitempty"`
}

// Clone returns a deep copy so callers can hand a config to Merge while
// mutating their own reference.
func (c OverrideConfig) Clone() OverrideConfig {
	return OverrideConfig{
		Order:        cloneStrings(c.Order),
		Separators:   cloneSeparators(c.Separators),
		Hidden:       cloneStrings(c.Hidden),
		Renamed:      cloneStringMap(c.Renamed),
		Favorites:    cloneStrings(c.Favorites),
		SubmenuOrder: cloneNestedMap(c.SubmenuOrder),
		CustomIcons:  cloneStringMap(c.CustomIcons),
	}
}

// IsEmpty reports whether no field carries an override.
func (c OverrideConfig) IsEmpty() bool {
	return len(c.Order) == 0 &&
		len(c.Separators) == 0 &&
		len(c.Hidden) == 0 &&
		len(c.Renamed) == 0 &&
		len(c.Favorites) == 0 &&
		len(c.SubmenuOrder) == 0 &&
		len(c.CustomIcons) == 0
}

// Sanitized routes every field through its sanitizer and returns the
// canonical form: all containers non-nil, all strings normalized. It is
// idempotent.
func (c OverrideConfig) Sanitized() OverrideConfig {
	return OverrideConfig{
		Order:        SanitizeIDList(c.Order),
		Separators:   SanitizeSeparators(c.Separators),
		Hidden:       SanitizeIDList(c.Hidden),
		Renamed:      SanitizeStringMap(c.Renamed),
		Favorites:    SanitizeIDList(c.Favorites),
		SubmenuOrder: SanitizeNestedIDListMap(c.SubmenuOrder),
		CustomIcons:  SanitizeStringMap(c.CustomIcons),
	}
}

// setField assigns an already sanitized value under one of the seven wire
// keys. Unknown keys are ignored.
func (c *OverrideConfig) setField(key string, value any) {
	switch key {
	case FieldMenuOrder:
		if v, ok := value.([]string); ok {
			c.Order = v
		}
	case FieldSeparators:
		if v, ok := value.([]Separator); ok {
			c.Separators = v
		}
	case FieldHiddenItems:
		if v, ok := value.([]string); ok {
			c.Hidden = v
		}
	case FieldRenamedItems:
		if v, ok := value.(map[string]string); ok {
			c.Renamed = v
		}
	case FieldFavoriteItems:
		if v, ok := value.([]string); ok {
			c.Favorites = v
		}
	case FieldSubmenuOrder:
		if v, ok := value.(map[string][]string); ok {
			c.SubmenuOrder = v
		}
	case FieldCustomIcons:
		if v, ok := value.(map[string]string); ok {
			c.CustomIcons = v
		}
	}
}

// fieldValue returns the value stored under one of the seven wire keys.
func (c OverrideConfig) fieldValue(key string) any {
	switch key {
	case FieldMenuOrder:
		return c.Order
	case FieldSeparators:
		return c.Separators
	case FieldHiddenItems:
		return c.Hidden
	case FieldRenamedItems:
		return c.Renamed
	case FieldFavoriteItems:
		return c.Favorites
	case FieldSubmenuOrder:
		return c.SubmenuOrder
	case FieldCustomIcons:
		return c.CustomIcons
	}
	return nil
}

// UserRecord wraps a user's personal OverrideConfig. The personal config is
// only consulted while Enabled is true; deleting the record reverts the user
// to role fallback.
type UserRecord struct {
	OverrideConfig
	Enabled        bool      `json:"enabled"`
	CopiedFromRole string    `json:"copied_from_role,omitempty"`
	LastModified   time.Time `json:"last_modified"`
}

// Clone returns a deep copy of the record.
func (r UserRecord) Clone() UserRecord {
	out := r
	out.OverrideConfig = r.OverrideConfig.Clone()
	return out
}

// MergeResult is the render-ready outcome of a merge pass: the final ordered
// entries plus out-of-band style hints for text separators, which the
// external renderer turns into whatever presentation it uses.
type MergeResult struct {
	Items  []MenuItem       `json:"items"`
	Styles []SeparatorStyle `json:"styles,omitempty"`
}

// SeparatorStyle binds an injected separator's unique index to its label
// text. Only text separators produce one.
type SeparatorStyle struct {
	Index int    `json:"index"`
	Class string `json:"class"`
	Text  string `json:"text"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func cloneSeparators(in []Separator) []Separator {
	if in == nil {
		return nil
	}
	return append([]Separator{}, in...)
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cloneNestedMap(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for key, value := range in {
		out[key] = append([]string{}, value...)
	}
	return out
}
