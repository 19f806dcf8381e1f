package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/model"
)

func TestHashIsDeterministicAndContentSensitive(t *testing.T) {
	a, err := model.Hash([]byte("routine:a.py:foo"))
	assert.NoError(t, err)
	b, err := model.Hash([]byte("routine:a.py:foo"))
	assert.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := model.Hash([]byte("routine:a.py:bar"))
	assert.NoError(t, err)
	assert.NotEqual(t, a, c)
}
