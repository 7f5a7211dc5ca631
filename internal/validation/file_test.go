package validation

import (
	"testing"

	"github.com/commutelog/api/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestValidateFile(t *testing.T) {
	constraints := ImageConstraints(1 << 20)

	t.Run("png accepted", func(t *testing.T) {
		header := testutil.FileHeader(t, "photo.png", testutil.PNG(t))
		assert.NoError(t, ValidateFile(header, constraints))
	})

	t.Run("text rejected by content", func(t *testing.T) {
		header := testutil.FileHeader(t, "photo.png", []byte("definitely not an image"))
		assert.ErrorIs(t, ValidateFile(header, constraints), ErrInvalidFile)
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		header := testutil.FileHeader(t, "photo.exe", testutil.PNG(t))
		assert.ErrorIs(t, ValidateFile(header, constraints), ErrInvalidFile)
	})

	t.Run("too large rejected", func(t *testing.T) {
		header := testutil.FileHeader(t, "photo.png", testutil.PNG(t))
		assert.ErrorIs(t, ValidateFile(header, ImageConstraints(8)), ErrInvalidFile)
	})

	t.Run("no constraints", func(t *testing.T) {
		header := testutil.FileHeader(t, "photo.png", testutil.PNG(t))
		assert.Error(t, ValidateFile(header))
	})
}
