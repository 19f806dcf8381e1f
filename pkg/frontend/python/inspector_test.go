package python_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/frontend/python"
	"github.com/viant/codegraph/pkg/model"
)

const userSource = `"""Domain models."""
import os
from app.db import Session


class User(Base):
    """A registered user.

    Args:
        name: the user's name
    """

    def __init__(self, name):
        self.name = name

    def greet(self):
        return self._format(self.name)

    def _format(self, value):
        return value
`

func TestParseExtractsModuleDocImportsAndClass(t *testing.T) {
	inspector := python.NewInspector()

	mod, diags, err := inspector.Parse(context.Background(), "app/models.py", []byte(userSource))
	assert.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, model.LangPython, mod.Language)
	assert.Equal(t, "app", mod.Package)
	if assert.NotNil(t, mod.Doc) {
		assert.Equal(t, "Domain models.", mod.Doc.Text)
	}

	if assert.Len(t, mod.Imports, 2) {
		assert.Equal(t, "os", mod.Imports[0].Path)
		assert.Equal(t, "app.db", mod.Imports[1].Path)
		assert.Equal(t, "Session", mod.Imports[1].Name)
	}

	if assert.Len(t, mod.Types, 1) {
		user := mod.Types[0]
		assert.Equal(t, "User", user.Name)
		assert.True(t, user.IsExported)
		if assert.Len(t, user.Bases, 1) {
			assert.Equal(t, "Base", user.Bases[0].Text)
		}
		if assert.Len(t, user.Members, 1) {
			assert.Equal(t, "name", user.Members[0].Name)
			assert.Equal(t, model.AttrInstance, user.Members[0].Kind)
		}
		if assert.Len(t, user.Methods, 3) {
			assert.Equal(t, "__init__", user.Methods[0].Name)
			greet := user.Methods[1]
			assert.Equal(t, "greet", greet.Name)
			assert.Equal(t, model.RoutineMethod, greet.Kind)
			if assert.Len(t, greet.CallSites, 1) {
				assert.Equal(t, "_format", greet.CallSites[0].Callee)
				assert.Equal(t, "self", greet.CallSites[0].Receiver)
			}
			format := user.Methods[2]
			assert.Equal(t, "_format", format.Name)
			assert.False(t, format.IsExported)
			assert.Equal(t, model.VisibilityPrivate, format.Visibility)
		}
	}
}

const widgetSource = `class Widget:
    @staticmethod
    def make():
        return Widget()

    @classmethod
    def from_name(cls, name):
        return cls()

    @property
    def label(self):
        return self._label

    @abstractmethod
    def render(self):
        pass
`

func TestParseRecognisesStaticClassPropertyAndAbstractDecorators(t *testing.T) {
	inspector := python.NewInspector()

	mod, diags, err := inspector.Parse(context.Background(), "app/widget.py", []byte(widgetSource))
	assert.NoError(t, err)
	assert.Empty(t, diags)

	if assert.Len(t, mod.Types, 1) {
		widget := mod.Types[0]

		if assert.Len(t, widget.Methods, 3) {
			make := widget.Methods[0]
			assert.Equal(t, "make", make.Name)
			assert.True(t, make.IsStatic)

			fromName := widget.Methods[1]
			assert.Equal(t, "from_name", fromName.Name)
			assert.True(t, fromName.IsStatic)

			render := widget.Methods[2]
			assert.Equal(t, "render", render.Name)
			assert.True(t, render.IsAbstract)
		}

		if assert.Len(t, widget.Members, 1) {
			label := widget.Members[0]
			assert.Equal(t, "label", label.Name)
			assert.Equal(t, model.AttrProperty, label.Kind)
			assert.Equal(t, widget.ID, label.Owner)
		}
	}
}

func TestParseRecordsParseFailureDiagnosticOnSyntaxError(t *testing.T) {
	inspector := python.NewInspector()
	broken := "def broken(:\n    pass\n"

	_, diags, err := inspector.Parse(context.Background(), "app/broken.py", []byte(broken))
	assert.NoError(t, err)
	assert.NotEmpty(t, diags)
	assert.Equal(t, "python", diags[0].Frontend)
}
