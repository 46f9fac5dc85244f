package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragment_Indexed(t *testing.T) {
	f := Fragment{}
	assert.False(t, f.Indexed())

	f.Embedding = []float32{}
	assert.False(t, f.Indexed())

	f.Embedding = []float32{0.1, 0.2}
	assert.True(t, f.Indexed())
}

func TestAllForOwner(t *testing.T) {
	scope := AllForOwner("user-1")
	assert.Equal(t, ScopeAllForOwner, scope.Kind)
	assert.Equal(t, "user-1", scope.OwnerID)
	assert.Empty(t, scope.ResourceIDs)
}

func TestSubsetOfResources(t *testing.T) {
	scope := SubsetOfResources("user-1", []string{"res-1", "res-2"})
	assert.Equal(t, ScopeSubsetOfResources, scope.Kind)
	assert.Equal(t, "user-1", scope.OwnerID)
	assert.Equal(t, []string{"res-1", "res-2"}, scope.ResourceIDs)
}
