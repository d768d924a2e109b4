package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPlan(t *testing.T) {
	plan, ok := FindPlan("MTN", "10")
	require.True(t, ok)
	assert.Equal(t, "10GB", plan.Name)
	assert.Equal(t, int64(4400), plan.Price)

	_, ok = FindPlan("MTN", "99")
	assert.False(t, ok)

	_, ok = FindPlan("Vodafone", "1")
	assert.False(t, ok)
}

func TestKnownNetwork(t *testing.T) {
	assert.True(t, KnownNetwork("MTN"))
	assert.True(t, KnownNetwork("AirtelTigo"))
	assert.True(t, KnownNetwork("Telecel"))
	assert.False(t, KnownNetwork("mtn"))
}

func TestNetworks(t *testing.T) {
	networks := Networks()
	assert.Len(t, networks, 3)
	assert.ElementsMatch(t, []string{"MTN", "AirtelTigo", "Telecel"}, networks)
}
