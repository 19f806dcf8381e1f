package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/model"
)

func TestBuildID(t *testing.T) {
	id := model.BuildID(model.KindType, "app/models.py", "User", 0)
	assert.Equal(t, "type:app/models.py:User", id)

	withDisambiguator := model.BuildID(model.KindType, "app/models.py", "User", 2)
	assert.Equal(t, "type:app/models.py:User:2", withDisambiguator)
}

func TestExternalRef(t *testing.T) {
	assert.Equal(t, model.External, model.ExternalRef(""))
	assert.True(t, model.IsExternal(model.ExternalRef("")))

	ref := model.ExternalRef("requests.Session")
	assert.Equal(t, "external:unresolved:requests.Session", ref)
	assert.True(t, model.IsExternal(ref))

	assert.False(t, model.IsExternal("type:app/models.py:User"))
}

func TestIdentifierAllocatorDisambiguatesCollisions(t *testing.T) {
	alloc := model.NewIdentifierAllocator(model.KindRoutine)

	first, collided := alloc.Allocate("app/service.py", "Service.run")
	assert.False(t, collided)
	assert.Equal(t, "routine:app/service.py:Service.run", first)

	second, collided := alloc.Allocate("app/service.py", "Service.run")
	assert.True(t, collided)
	assert.NotEqual(t, first, second)

	third, collided := alloc.Allocate("app/service.py", "Service.run")
	assert.True(t, collided)
	assert.NotEqual(t, second, third)

	// A distinct qualified name never collides with the first.
	other, collided := alloc.Allocate("app/service.py", "Service.stop")
	assert.False(t, collided)
	assert.NotEqual(t, first, other)
}
