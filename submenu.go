package adminmenu

// MergeChildren applies the per-parent submenu ordering from
// cfg.SubmenuOrder[parentID]: named children first in override order (ids
// absent from children are skipped), then the rest in their original
// relative order. Without an override for parentID the children are
// returned unchanged. Hiding and renaming do not apply at this level.
func MergeChildren(parentID string, children []SubmenuItem, cfg OverrideConfig) []SubmenuItem {
	order, ok := cfg.SubmenuOrder[parentID]
	if !ok || len(order) == 0 || len(children) == 0 {
		return children
	}

	remaining := append([]SubmenuItem(nil), children...)
	out := make([]SubmenuItem, 0, len(children))

	for _, id := range order {
		for i, child := range remaining {
			if child.ID == id {
				out = append(out, child)
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return append(out, remaining...)
}
