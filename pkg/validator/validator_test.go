package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

func TestValidate_Success(t *testing.T) {
	req := addItemRequest{
		ProductID: "7b5a0a60-9a14-4f7c-9a41-1ea3b4f2fa11",
		Quantity:  2,
	}
	assert.NoError(t, Validate(req))
}

func TestValidate_MissingRequired(t *testing.T) {
	req := addItemRequest{Quantity: 2}

	err := Validate(req)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields()["ProductID"])
}

func TestValidate_MultipleFailures(t *testing.T) {
	req := addItemRequest{}

	err := Validate(req)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.Fields()
	assert.Len(t, fields, 2)
	assert.Equal(t, "must be greater than 0", fields["Quantity"])
}

func TestValidate_InvalidUUID(t *testing.T) {
	req := addItemRequest{ProductID: "not-a-uuid", Quantity: 1}

	err := Validate(req)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid UUID", verr.Fields()["ProductID"])
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(addItemRequest{Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'ProductID' is required")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"product_id":"7b5a0a60-9a14-4f7c-9a41-1ea3b4f2fa11","quantity":3}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var req addItemRequest
	require.NoError(t, DecodeAndValidate(r, &req))
	assert.Equal(t, 3, req.Quantity)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not-json"))

	var req addItemRequest
	err := DecodeAndValidate(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_FailsValidation(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))

	var req addItemRequest
	err := DecodeAndValidate(r, &req)
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
