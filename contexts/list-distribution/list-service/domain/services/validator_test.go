package services

import (
	"errors"
	"strings"
	"testing"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsEmptyInput(t *testing.T) {
	_, err := Validate(nil)
	require.ErrorIs(t, err, domainerrors.ErrEmptyBatch)
}

func TestValidateFailsFastOnFirstBadRow(t *testing.T) {
	_, err := Validate([]entities.NormalizedRecord{
		{FirstName: "Ada", Phone: "5550101"},
		{FirstName: "", Phone: "5550102"},
		{FirstName: "Grace", Phone: "abc"},
	})
	require.Error(t, err)

	var rowErr *domainerrors.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "firstName", rowErr.Field)
	assert.ErrorIs(t, err, domainerrors.ErrMissingRequiredField)
	assert.Equal(t, "Missing or empty required field 'firstName' at row 2", err.Error())
}

func TestValidateTreatsWhitespaceAsMissing(t *testing.T) {
	_, err := Validate([]entities.NormalizedRecord{{FirstName: "Ada", Phone: "   "}})
	require.ErrorIs(t, err, domainerrors.ErrMissingRequiredField)

	var rowErr *domainerrors.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "phone", rowErr.Field)
	assert.Equal(t, 1, rowErr.Row)
}

func TestValidatePhoneFormat(t *testing.T) {
	for _, phone := range []string{"+1 (555) 010-1234", "5550101", "  555 0101  "} {
		_, err := Validate([]entities.NormalizedRecord{{FirstName: "Ada", Phone: phone}})
		assert.NoError(t, err, phone)
	}

	_, err := Validate([]entities.NormalizedRecord{{FirstName: "Ada", Phone: "555-CALL-NOW"}})
	require.ErrorIs(t, err, domainerrors.ErrInvalidPhoneFormat)
	assert.Equal(t, "Invalid phone number format at row 1", err.Error())
}

func TestValidateFirstNameLength(t *testing.T) {
	_, err := Validate([]entities.NormalizedRecord{{FirstName: strings.Repeat("a", 100), Phone: "1"}})
	require.NoError(t, err)

	_, err = Validate([]entities.NormalizedRecord{{FirstName: strings.Repeat("é", 100), Phone: "1"}})
	require.NoError(t, err)

	padded := "  " + strings.Repeat("a", 100) + "  "
	batch, err := Validate([]entities.NormalizedRecord{{FirstName: padded, Phone: "1"}})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 100), batch.Records()[0].FirstName)

	_, err = Validate([]entities.NormalizedRecord{
		{FirstName: "ok", Phone: "1"},
		{FirstName: strings.Repeat("a", 101), Phone: "1"},
	})
	require.ErrorIs(t, err, domainerrors.ErrFieldTooLong)
	var rowErr *domainerrors.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
}

func TestValidateTrimsAcceptedValues(t *testing.T) {
	batch, err := Validate([]entities.NormalizedRecord{
		{FirstName: "  Ada ", Phone: " 555 ", Notes: " call me "},
		{FirstName: "Grace", Phone: "556"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	records := batch.Records()
	assert.Equal(t, entities.NormalizedRecord{FirstName: "Ada", Phone: "555", Notes: "call me"}, records[0])
	assert.Equal(t, "Grace", records[1].FirstName)

	records[0].FirstName = "mutated"
	assert.Equal(t, "Ada", batch.Records()[0].FirstName)
}
