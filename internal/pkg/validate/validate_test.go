package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regPayload struct {
	CorpRegNo string `json:"corp_reg_no" validate:"required,regno"`
	Email     string `json:"email" validate:"required,email"`
}

func TestStruct_AcceptsRegistrationNumbers(t *testing.T) {
	for _, no := range []string{"110111-0000111", "1208812345", "120-88-12345"} {
		err := Struct(regPayload{CorpRegNo: no, Email: "a@b.com"})
		require.NoError(t, err, no)
	}
}

func TestStruct_RejectsMalformedRegistrationNumber(t *testing.T) {
	for _, no := range []string{"12ab34", "110111-", "-110111", "not a number"} {
		err := Struct(regPayload{CorpRegNo: no, Email: "a@b.com"})
		require.Error(t, err, no)
	}
}

func TestStruct_ErrorNamesJSONField(t *testing.T) {
	err := Struct(regPayload{CorpRegNo: "110111-0000111", Email: "nope"})

	require.Error(t, err)
	// the message must use the wire name, not the Go field name
	assert.Contains(t, err.Error(), "email")
	assert.NotContains(t, err.Error(), "Email")
}
