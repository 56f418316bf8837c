package shared

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type selfValidating struct {
	OK bool
}

func (s selfValidating) Validate() error {
	if !s.OK {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"email":"a@b.co"}`))

		var payload taggedPayload
		require.NoError(t, DecodeJSON(req, &payload))
		assert.Equal(t, "a@b.co", payload.Email)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"email":`))

		var payload taggedPayload
		assert.Error(t, DecodeJSON(req, &payload))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("struct tags", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(taggedPayload{Email: "a@b.co"}))
		assert.Error(t, ValidateRequest(taggedPayload{Email: "nope"}))
	})

	t.Run("custom Validate method wins", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(selfValidating{OK: true}))
		assert.Error(t, ValidateRequest(selfValidating{OK: false}))
	})
}
