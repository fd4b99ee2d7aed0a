package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestPasswordLifecycle(t *testing.T) {
	keyring.MockInit()
	const vaultID = "0b8a2a4e-6f55-4a8e-9d3c-1f2e3d4c5b6a"

	assert.False(t, HasPassword(vaultID))
	_, err := GetPassword(vaultID)
	assert.ErrorIs(t, err, ErrNotStored)

	require.NoError(t, SavePassword(vaultID, []byte("hunter2")))
	assert.True(t, HasPassword(vaultID))

	got, err := GetPassword(vaultID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), got)

	// Overwrite on rotation
	require.NoError(t, SavePassword(vaultID, []byte("correct horse")))
	got, err = GetPassword(vaultID)
	require.NoError(t, err)
	assert.Equal(t, []byte("correct horse"), got)

	require.NoError(t, DeletePassword(vaultID))
	assert.False(t, HasPassword(vaultID))
	assert.ErrorIs(t, DeletePassword(vaultID), ErrNotStored)
}

func TestVaultsAreSeparate(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, SavePassword("a", []byte("one")))
	require.NoError(t, SavePassword("b", []byte("two")))

	got, err := GetPassword("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)
	assert.False(t, HasPassword("c"))
}
