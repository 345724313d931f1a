package form

import (
	"testing"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormStartsEmpty(t *testing.T) {
	f := New(ContactSchema, nil)

	assert.Equal(t, map[string]string{"name": "", "email": "", "message": ""}, f.Values())
}

func TestSetMergesOneField(t *testing.T) {
	f := New(ContactSchema, nil)

	require.NoError(t, f.Set("name", "Мария"))
	require.NoError(t, f.Set("email", "maria@example.com"))
	require.NoError(t, f.Set("name", "Мария К."))

	assert.Equal(t, map[string]string{
		"name":    "Мария К.",
		"email":   "maria@example.com",
		"message": "",
	}, f.Values())
}

func TestSetUnknownField(t *testing.T) {
	f := New(ContactSchema, nil)

	err := f.Set("phone", "+7")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Len(t, f.Values(), 3)
}

func TestSubmitRejectsMissingRequired(t *testing.T) {
	buf := notify.NewBuffer()
	f := New(ContactSchema, buf)
	require.NoError(t, f.Set("name", "Мария"))
	before := f.Values()

	submitted, err := f.Submit()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email", "message"}, verr.Missing)
	assert.Nil(t, submitted)
	assert.Equal(t, before, f.Values())

	got := buf.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, models.SeverityError, got[0].Severity)
	assert.Equal(t, "Заполните все поля", got[0].Message)
}

func TestSubmitSuccessResets(t *testing.T) {
	buf := notify.NewBuffer()
	f := New(ContactSchema, buf)
	require.NoError(t, f.Set("name", "Мария"))
	require.NoError(t, f.Set("email", "maria@example.com"))
	require.NoError(t, f.Set("message", "Нужен сайт"))

	submitted, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Нужен сайт", submitted["message"])

	for _, v := range f.Values() {
		assert.Empty(t, v)
	}

	got := buf.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, models.SeveritySuccess, got[0].Severity)
}

func TestOptionalFieldsMayBeEmpty(t *testing.T) {
	f := New(OrderSchema, nil)
	require.NoError(t, f.Set("name", "Анна"))
	require.NoError(t, f.Set("phone", "+7 900 000-00-00"))
	require.NoError(t, f.Set("address", "Москва, Тверская 1"))

	assert.NoError(t, f.Validate())

	submitted, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "", submitted["comment"])
	assert.Equal(t, "", f.Values()["name"])
}

func TestValidateDoesNotNotify(t *testing.T) {
	buf := notify.NewBuffer()
	f := New(OrderSchema, buf)

	assert.Error(t, f.Validate())
	assert.Equal(t, 0, buf.Len())
}
