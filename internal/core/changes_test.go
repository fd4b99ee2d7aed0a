package core

import (
	"testing"

	"github.com/illarion/pwvault/internal/crypto"
	"github.com/stretchr/testify/assert"
)

func TestFieldChangeDiff(t *testing.T) {
	tests := []struct {
		name     string
		change   FieldChange
		expected string
	}{
		{"append", FieldChange{Field: "username", Old: "alice", New: "alice2"}, "alice{+2+}"},
		{"from empty", FieldChange{Field: "username", Old: "", New: "x"}, "{+x+}"},
		{"to empty", FieldChange{Field: "username", Old: "x", New: ""}, "[-x-]"},
		{"equal", FieldChange{Field: "name", Old: "github", New: "github"}, "github"},
		{"sensitive", FieldChange{Field: "secret", Sensitive: true}, "(changed)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.change.Diff())
		})
	}
}

func TestFieldChangeDiffReplace(t *testing.T) {
	out := FieldChange{Old: "github", New: "gitlab"}.Diff()
	assert.Contains(t, out, "[-")
	assert.Contains(t, out, "{+")
	assert.NotContains(t, out, "(changed)")
}

func TestApplyUpdate(t *testing.T) {
	base := crypto.Credential{Name: "github", Username: "alice", Secret: "s3cr3t"}

	got, changes := applyUpdate(base, Update{})
	assert.Equal(t, base, got)
	assert.Empty(t, changes)

	got, changes = applyUpdate(base, Update{Username: strPtr("alice"), Secret: strPtr("new")})
	assert.Equal(t, crypto.Credential{Name: "github", Username: "alice", Secret: "new"}, got)
	assert.Equal(t, []FieldChange{{Field: "secret", Sensitive: true}}, changes)

	// An empty username is a real value, not "keep"
	got, changes = applyUpdate(base, Update{Username: strPtr("")})
	assert.Equal(t, "", got.Username)
	assert.Equal(t, []FieldChange{{Field: "username", Old: "alice", New: ""}}, changes)

	assert.Equal(t, "alice", base.Username, "input is not modified")
}
