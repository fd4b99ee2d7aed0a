package core

import (
	"strings"

	"github.com/illarion/pwvault/internal/crypto"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FieldChange records one field modified by Edit
type FieldChange struct {
	Field     string
	Old       string
	New       string
	Sensitive bool // value must not be shown
}

// Diff renders the change inline, wdiff style: [-removed-]{+added+}.
// Sensitive fields render as "(changed)".
func (c FieldChange) Diff() string {
	if c.Sensitive {
		return "(changed)"
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(c.Old, c.New, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		}
	}
	return b.String()
}

// applyUpdate returns c with the supplied fields replaced
func applyUpdate(c crypto.Credential, upd Update) (crypto.Credential, []FieldChange) {
	var changes []FieldChange

	set := func(field string, dst *string, val *string, sensitive bool) {
		if val == nil || *val == *dst {
			return
		}
		ch := FieldChange{Field: field, Sensitive: sensitive}
		if !sensitive {
			ch.Old, ch.New = *dst, *val
		}
		changes = append(changes, ch)
		*dst = *val
	}

	set("name", &c.Name, upd.Name, false)
	set("username", &c.Username, upd.Username, false)
	set("secret", &c.Secret, upd.Secret, true)

	return c, changes
}
