package utils

import (
	"testing"

	"foodgram-backend/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorUsesJSONNames(t *testing.T) {
	InitValidator()

	err := Validate.Struct(domain.RegisterRequest{Email: "bad"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "required", fields["first_name"])
}

func TestCustomValidations(t *testing.T) {
	InitValidator()

	assert.NoError(t, Validate.Struct(domain.TagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch_time-1"}))
	assert.Error(t, Validate.Struct(domain.TagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch time"}))
	assert.Error(t, Validate.Struct(domain.TagRequest{Name: "Lunch", Color: "green", Slug: "lunch"}))

	req := domain.RegisterRequest{Email: "a@b.co", Username: "chef.bob+1", FirstName: "Bob", LastName: "Chef", Password: "longenough"}
	assert.NoError(t, Validate.Struct(req))
	req.Username = "chef bob"
	assert.Error(t, Validate.Struct(req))
}

func TestMustRegisterPanicsOnInvalidRule(t *testing.T) {
	v := validator.New()
	assert.Panics(t, func() {
		mustRegister(v, "", func(validator.FieldLevel) bool { return true })
	})
	assert.NotPanics(t, func() {
		mustRegister(v, "always", func(validator.FieldLevel) bool { return true })
	})
}
