package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Username  string `form:"username" binding:"required,alphanum,min=3,max=30"`
	Email     string `form:"email" binding:"required,email"`
	Password1 string `form:"password1" binding:"required,pwd"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

func validate(t *testing.T, payload any) error {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v.Struct(payload)
}

func TestMain(m *testing.M) {
	Init()
	m.Run()
}

func TestValidPayloadPasses(t *testing.T) {
	err := validate(t, signupPayload{
		Username:  "testuser",
		Email:     "test@example.com",
		Password1: "testpass123",
		Password2: "testpass123",
	})
	assert.NoError(t, err)
}

func TestFieldNamesComeFromFormTags(t *testing.T) {
	err := validate(t, signupPayload{})
	details := ToDetails(err)

	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "is required", details["password1"])
	assert.NotContains(t, details, "Username", "struct field names must not leak")
}

func TestEmailMessage(t *testing.T) {
	err := validate(t, signupPayload{
		Username:  "testuser",
		Email:     "not-an-email",
		Password1: "testpass123",
		Password2: "testpass123",
	})
	details := ToDetails(err)

	assert.Equal(t, "must be a valid email", details["email"])
}

func TestPasswordAliasMessage(t *testing.T) {
	err := validate(t, signupPayload{
		Username:  "testuser",
		Email:     "test@example.com",
		Password1: "short",
		Password2: "short",
	})
	details := ToDetails(err)

	assert.Equal(t, "must be at least 8 characters long", details["password1"])
}

func TestPasswordMismatchMessage(t *testing.T) {
	err := validate(t, signupPayload{
		Username:  "testuser",
		Email:     "test@example.com",
		Password1: "testpass123",
		Password2: "different123",
	})
	details := ToDetails(err)

	assert.Equal(t, "must match the password1 field", details["password2"])
}

func TestUsernameBounds(t *testing.T) {
	err := validate(t, signupPayload{
		Username:  "ab",
		Email:     "test@example.com",
		Password1: "testpass123",
		Password2: "testpass123",
	})
	details := ToDetails(err)
	assert.Equal(t, "must be at least 3 characters long", details["username"])

	err = validate(t, signupPayload{
		Username:  "has spaces!",
		Email:     "test@example.com",
		Password1: "testpass123",
		Password2: "testpass123",
	})
	details = ToDetails(err)
	assert.Equal(t, "must contain alphanumeric characters only", details["username"])
}

func TestToDetailsNonValidationError(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
