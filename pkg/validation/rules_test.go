package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]string {
	return map[string]string{
		FieldEmail:     "a@b.com",
		FieldPassword:  "pw12345",
		FieldFirstName: "Jo",
		FieldLastName:  "Do",
		FieldPhone:     "+1234567",
	}
}

func TestValidateUserCreate(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		assert.NoError(t, ValidateUser(validPayload(), Create))
	})

	t.Run("short names", func(t *testing.T) {
		p := validPayload()
		p[FieldFirstName] = "J"
		p[FieldLastName] = "D"
		err := ValidateUser(p, Create)
		require.Error(t, err)

		var verrs Errors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, Errors{
			{Field: FieldFirstName, Message: MsgFirstName},
			{Field: FieldLastName, Message: MsgLastName},
		}, verrs)
		assert.Equal(t, MsgFirstName+"; "+MsgLastName, err.Error())
	})

	t.Run("phone pattern", func(t *testing.T) {
		for _, phone := range []string{"12345", "+123", "+12345a7", "+ 1234567"} {
			p := validPayload()
			p[FieldPhone] = phone
			assert.Error(t, ValidateUser(p, Create), phone)
		}
		p := validPayload()
		p[FieldPhone] = "+375293021197"
		assert.NoError(t, ValidateUser(p, Create))
	})

	t.Run("missing fields aggregate in table order", func(t *testing.T) {
		err := ValidateUser(map[string]string{}, Create)
		require.Error(t, err)
		var verrs Errors
		require.True(t, errors.As(err, &verrs))
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field)
		}
		assert.Equal(t, []string{FieldFirstName, FieldLastName, FieldPassword, FieldPhone, FieldEmail}, fields)
	})

	t.Run("blank password", func(t *testing.T) {
		p := validPayload()
		p[FieldPassword] = "   "
		assert.EqualError(t, ValidateUser(p, Create), MsgPassword)
	})

	t.Run("bad email", func(t *testing.T) {
		p := validPayload()
		p[FieldEmail] = "not-an-email"
		assert.EqualError(t, ValidateUser(p, Create), MsgEmail)
	})
}

func TestValidateUserEdit(t *testing.T) {
	t.Run("empty payload passes", func(t *testing.T) {
		assert.NoError(t, ValidateUser(map[string]string{}, Edit))
	})

	t.Run("only present fields are validated", func(t *testing.T) {
		assert.NoError(t, ValidateUser(map[string]string{FieldPhone: "+375293021197"}, Edit))
		assert.EqualError(t, ValidateUser(map[string]string{FieldPhone: "12345"}, Edit), MsgPhone)
		assert.EqualError(t, ValidateUser(map[string]string{FieldEmail: "nope"}, Edit), MsgEmail)
		assert.EqualError(t, ValidateUser(map[string]string{FieldFirstName: "J"}, Edit), MsgFirstName)
	})
}
