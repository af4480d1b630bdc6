package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hello", CleanString("  Hello \n"))
	assert.Equal(t, "hello", CleanString("  Hello ", true))
	assert.Equal(t, "", CleanString("   "))
}

func TestTranslateErrors(t *testing.T) {
	validate, translator := NewValidator()

	type form struct {
		Username string `json:"username" validate:"required,min=3,alphanum_"`
		Email    string `json:"email" validate:"omitempty,email"`
	}

	t.Run("valid", func(t *testing.T) {
		err := TranslateErrors(validate.Struct(form{Username: "jane_doe"}), translator)
		assert.NoError(t, err)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		err := TranslateErrors(validate.Struct(form{Username: "j@ne", Email: "nope"}), translator)
		require.Error(t, err)

		vErr, ok := err.(*ValidationError)
		require.True(t, ok)
		require.Len(t, vErr.Fields, 2)
		assert.Equal(t, "username", vErr.Fields[0].Field)
		assert.Equal(t, "only alphanumeric characters and underscores are allowed", vErr.Fields[0].Error)
		assert.Equal(t, "email", vErr.Fields[1].Field)
	})

	t.Run("required text is overridden", func(t *testing.T) {
		err := TranslateErrors(validate.Struct(form{}), translator)
		require.Error(t, err)

		vErr := err.(*ValidationError)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "this field is required", vErr.Fields[0].Error)
	})
}

func TestShutdownError(t *testing.T) {
	err := NewShutdownError("db gone")
	assert.True(t, IsShutdown(err))
	assert.False(t, IsShutdown(assert.AnError))
	assert.Equal(t, "db gone", err.Error())
}
