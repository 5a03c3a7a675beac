package adminmenu

import (
	"fmt"
	"sort"
)

// Merge produces the final ordered menu from a baseline tree and one
// effective configuration. The baseline slice is not mutated; cfg is
// read-only input. When configPage is true hidden ids are not dropped, so
// the configuration UI can still list them.
//
// Pass order: favorites group, explicit ordering with remainder, then
// separator injection. Ids unknown to the baseline are skipped silently
// wherever they appear.
func Merge(items []MenuItem, cfg OverrideConfig, configPage bool) MergeResult {
	hidden := stringSet(cfg.Hidden)
	out := make([]MenuItem, 0, len(items)+len(cfg.Favorites)+len(cfg.Separators)+2)

	if len(cfg.Favorites) > 0 {
		out = append(out, favoritesGroup(items, cfg, hidden, configPage)...)
	}

	if len(cfg.Order) > 0 {
		out = append(out, orderedPass(items, cfg, hidden, configPage)...)
	} else {
		// No explicit order: keep original positions, only hide and rename
		// in place.
		for _, item := range items {
			if !configPage && hidden[item.ID] {
				continue
			}
			if title, ok := cfg.Renamed[item.ID]; ok {
				item.Title = title
			}
			out = append(out, item)
		}
	}

	merged, styles := injectSeparators(out, cfg.Separators)
	return MergeResult{Items: merged, Styles: styles}
}

// favoritesGroup builds the leading pinned section: a titled header
// separator, a clone of every resolvable favorite, and a closing separator.
// Entries are cloned rather than moved, so the same item also appears at its
// regular position later on.
func favoritesGroup(items []MenuItem, cfg OverrideConfig, hidden map[string]bool, configPage bool) []MenuItem {
	group := []MenuItem{{
		ID:         "favorites-separator-header",
		Title:      FavoritesTitle,
		CSSClasses: []string{SeparatorClass, FavoritesSeparatorClass},
	}}
	for _, id := range cfg.Favorites {
		if !configPage && hidden[id] {
			continue
		}
		index := indexByID(items, id)
		if index < 0 {
			continue
		}
		fav := items[index]
		if title, ok := cfg.Renamed[id]; ok {
			fav.Title = title
		}
		fav.Title = FavoriteMarker + fav.Title
		fav = fav.withClass(FavoriteClass)
		group = append(group, fav)
	}
	group = append(group, MenuItem{
		ID:         "favorites-separator-bottom",
		CSSClasses: []string{SeparatorClass},
	})
	return group
}

// orderedPass places items named in cfg.Order first, then the remaining
// baseline items in their original relative order. An item named in Order is
// consumed exactly once even when hidden, so a hidden ordered item never
// falls through to the remainder.
func orderedPass(items []MenuItem, cfg OverrideConfig, hidden map[string]bool, configPage bool) []MenuItem {
	working := append([]MenuItem(nil), items...)
	out := make([]MenuItem, 0, len(items))

	for _, id := range cfg.Order {
		index := indexByID(working, id)
		if index < 0 {
			continue
		}
		item := working[index]
		working = append(working[:index], working[index+1:]...)
		if !configPage && hidden[id] {
			continue
		}
		if title, ok := cfg.Renamed[id]; ok {
			item.Title = title
		}
		if icon, ok := cfg.CustomIcons[id]; ok && icon != "" {
			item.IconRef = icon
		}
		out = append(out, item)
	}

	ordered := stringSet(cfg.Order)
	for _, item := range working {
		if ordered[item.ID] {
			continue
		}
		if !configPage && hidden[item.ID] {
			continue
		}
		if title, ok := cfg.Renamed[item.ID]; ok {
			item.Title = title
		}
		out = append(out, item)
	}
	return out
}

// injectSeparators inserts each descriptor before the non-separator entry at
// its position ordinal, or at the end when the ordinal is out of range.
// Descriptors are processed in ascending position order; the index assigned
// to each one within that order is its unique style handle.
func injectSeparators(items []MenuItem, separators []Separator) ([]MenuItem, []SeparatorStyle) {
	if len(separators) == 0 {
		return items, nil
	}

	sorted := append([]Separator(nil), separators...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var styles []SeparatorStyle
	for index, separator := range sorted {
		entry := separatorEntry(index, separator)
		at := insertionPoint(items, separator.Position)
		items = append(items[:at], append([]MenuItem{entry}, items[at:]...)...)
		if separator.Kind == SeparatorText {
			styles = append(styles, SeparatorStyle{
				Index: index,
				Class: fmt.Sprintf("separator-%d", index),
				Text:  separator.Text,
			})
		}
	}
	return items, styles
}

// insertionPoint maps a non-separator ordinal to a slice index in the
// current working list. Previously injected separators shift slice indexes
// but never ordinals, which is what keeps descriptor positions stable
// relative to real entries.
func insertionPoint(items []MenuItem, position int) int {
	ordinal := 0
	for i, item := range items {
		if item.IsSeparator() {
			continue
		}
		if ordinal == position {
			return i
		}
		ordinal++
	}
	return len(items)
}

func separatorEntry(index int, separator Separator) MenuItem {
	classes := []string{SeparatorClass}
	if separator.Kind == SeparatorText {
		classes = append(classes, TextSeparatorClass, fmt.Sprintf("separator-%d", index))
	} else {
		classes = append(classes, SimpleSeparatorClass)
	}
	return MenuItem{
		ID:         fmt.Sprintf("separator-%d", index),
		CSSClasses: classes,
	}
}

func indexByID(items []MenuItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func stringSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return map[string]bool{}
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
