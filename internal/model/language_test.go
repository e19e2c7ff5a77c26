package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-editor/internal/apperror"
)

func TestLanguages(t *testing.T) {
	langs := Languages()
	require.Len(t, langs, 5)
	assert.Equal(t, JavaScript, langs[0].Value)

	executable := 0
	for _, l := range langs {
		if l.Executable {
			executable++
		}
	}
	assert.Equal(t, 1, executable, "only javascript should be executable")

	// Mutating the returned slice must not leak into the catalogue
	langs[0].Label = "changed"
	assert.Equal(t, "JavaScript", Languages()[0].Label)
}

func TestLookupLanguage(t *testing.T) {
	l, err := LookupLanguage("csharp")
	require.NoError(t, err)
	assert.Equal(t, "C#", l.Label)
	assert.False(t, l.Executable)

	_, err = LookupLanguage("cobol")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
