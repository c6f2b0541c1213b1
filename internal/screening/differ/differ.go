// Package differ computes set deltas between screening result sets.
package differ

import (
	"sort"

	regmodels "lexscreen/internal/regulation/models"
	"lexscreen/internal/screening/models"
)

// Diff computes the delta between two result sets, keyed by regulation ID.
// Pure set algebra: no ordering assumptions on the inputs, stable ordered
// output (by ID) regardless of input order. Empty inputs need no special
// casing.
func Diff(old, new []regmodels.Ref) models.Diff {
	oldByID := byID(old)
	newByID := byID(new)

	d := models.Diff{}

	for id, ref := range newByID {
		if _, ok := oldByID[id]; ok {
			d.UnchangedCount++
		} else {
			d.Added = append(d.Added, ref)
		}
	}
	for id, ref := range oldByID {
		if _, ok := newByID[id]; !ok {
			d.Removed = append(d.Removed, ref)
		}
	}

	sortRefs(d.Added)
	sortRefs(d.Removed)
	d.TotalChanges = len(d.Added) + len(d.Removed)
	return d
}

// Initial is the diff for a phase with no predecessor: everything is added.
func Initial(new []regmodels.Ref) models.Diff {
	return Diff(nil, new)
}

func byID(refs []regmodels.Ref) map[string]regmodels.Ref {
	m := make(map[string]regmodels.Ref, len(refs))
	for _, ref := range refs {
		m[ref.ID] = ref
	}
	return m
}

func sortRefs(refs []regmodels.Ref) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
}
