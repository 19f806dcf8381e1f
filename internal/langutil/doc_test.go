package langutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/internal/langutil"
)

func TestParsePythonDocParamsRESTStyle(t *testing.T) {
	doc := "Loads a user.\n\n:param name: the user's name\n:param age: the user's age\n"
	params := langutil.ParsePythonDocParams(doc)
	assert.Equal(t, map[string]string{
		"name": "the user's name",
		"age":  "the user's age",
	}, params)
}

func TestParsePythonDocParamsGoogleStyle(t *testing.T) {
	doc := "Loads a user.\n\nArgs:\n    name: the user's name\n    age (int): the user's age\n"
	params := langutil.ParsePythonDocParams(doc)
	assert.Equal(t, map[string]string{
		"name": "the user's name",
		"age":  "the user's age",
	}, params)
}

func TestParsePythonDocParamsNumPyStyle(t *testing.T) {
	doc := "Loads a user.\n\nParameters\n----------\nname : str\n    the user's name\nage : int\n    the user's age\n"
	params := langutil.ParsePythonDocParams(doc)
	assert.Equal(t, map[string]string{
		"name": "the user's name",
		"age":  "the user's age",
	}, params)
}

func TestParsePythonDocParamsEmptyDocReturnsNil(t *testing.T) {
	assert.Nil(t, langutil.ParsePythonDocParams("   \n  "))
}

func TestParseDocTagsSummaryParamsReturnsAndFlags(t *testing.T) {
	body := " * Loads a user by id.\n * @param {number} id - the user id\n * @returns {User} the loaded user\n * @async\n"
	tags := langutil.ParseDocTags(body)

	assert.Equal(t, "Loads a user by id.", tags.Summary)
	assert.Equal(t, "the user id", tags.Params["id"])
	assert.Equal(t, "{User} the loaded user", tags.Returns)
	assert.True(t, tags.Flags["async"])
}

func TestParseDocTagsPHPStyleDollarParam(t *testing.T) {
	body := " * Saves the model.\n * @param string $name the model name\n * @throws RuntimeException when validation fails\n"
	tags := langutil.ParseDocTags(body)

	assert.Equal(t, "the model name", tags.Params["name"])
	assert.Equal(t, []string{"RuntimeException when validation fails"}, tags.Throws)
}
