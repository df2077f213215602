package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormed(t *testing.T) {
	raw := `{"mappedItems":[
		{"originalRequest":"1 rolo de cabo","quantity":100,"catalogIndex":0,"conversionLog":"1 rolo = 100m"},
		{"originalRequest":"coisa","quantity":"2,5","catalogIndex":-1,"conversionLog":null},
		{"originalRequest":"bucha","quantity":0,"catalogIndex":null,"conversionLog":""}
	]}`

	results, err := Validate([]byte(raw), 2, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 100.0, results[0].Quantity)
	assert.Equal(t, 0, results[0].CatalogIndex)
	require.NotNil(t, results[0].ConversionNote)
	assert.Equal(t, "1 rolo = 100m", *results[0].ConversionNote)

	assert.Equal(t, 2.5, results[1].Quantity)
	assert.Equal(t, NotFound, results[1].CatalogIndex)
	assert.Nil(t, results[1].ConversionNote)

	assert.Equal(t, 1.0, results[2].Quantity)
	assert.Equal(t, NotFound, results[2].CatalogIndex)
	assert.Nil(t, results[2].ConversionNote)
}

func TestValidateStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"mappedItems\":[{\"originalRequest\":\"x\",\"quantity\":1,\"catalogIndex\":-1}]}\n```"
	results, err := Validate([]byte(raw), 0, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestValidateAllowsExtraItems(t *testing.T) {
	raw := `{"mappedItems":[
		{"originalRequest":"a","quantity":1,"catalogIndex":0},
		{"originalRequest":"b","quantity":1,"catalogIndex":0}
	]}`
	results, err := Validate([]byte(raw), 1, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestValidateIgnoresMalformedExtraItems(t *testing.T) {
	raw := `{"mappedItems":[
		{"originalRequest":"a","quantity":2,"catalogIndex":0},
		{"originalRequest":"b","quantity":1,"catalogIndex":57},
		{"quantity":true},
		"junk"
	]}`
	results, err := Validate([]byte(raw), 1, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].CatalogIndex)
	assert.Equal(t, 2.0, results[0].Quantity)
}

func TestValidateRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"not json", `nope`, 1},
		{"missing mappedItems", `{"items":[]}`, 1},
		{"null mappedItems", `{"mappedItems":null}`, 1},
		{"mappedItems not a list", `{"mappedItems":{"a":1}}`, 1},
		{"too few items", `{"mappedItems":[]}`, 1},
		{"missing originalRequest", `{"mappedItems":[{"quantity":1,"catalogIndex":0}]}`, 1},
		{"missing quantity", `{"mappedItems":[{"originalRequest":"a","catalogIndex":0}]}`, 1},
		{"quantity wrong type", `{"mappedItems":[{"originalRequest":"a","quantity":true,"catalogIndex":0}]}`, 1},
		{"missing catalogIndex", `{"mappedItems":[{"originalRequest":"a","quantity":1}]}`, 1},
		{"fractional index", `{"mappedItems":[{"originalRequest":"a","quantity":1,"catalogIndex":0.5}]}`, 1},
		{"index too large", `{"mappedItems":[{"originalRequest":"a","quantity":1,"catalogIndex":2}]}`, 1},
		{"index below -1", `{"mappedItems":[{"originalRequest":"a","quantity":1,"catalogIndex":-2}]}`, 1},
		{"index as string", `{"mappedItems":[{"originalRequest":"a","quantity":1,"catalogIndex":"0"}]}`, 1},
		{"log wrong type", `{"mappedItems":[{"originalRequest":"a","quantity":1,"catalogIndex":0,"conversionLog":5}]}`, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := Validate([]byte(tc.raw), 2, tc.want)
			require.Error(t, err)
			assert.Nil(t, results)
			assert.True(t, errors.Is(err, ErrRemoteMatch))

			var rme *RemoteMatchError
			require.ErrorAs(t, err, &rme)
			assert.Equal(t, "decode", rme.Op)
		})
	}
}

func TestRemoteMatchErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&RemoteMatchError{Op: "request", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrRemoteMatch)
	assert.Equal(t, "remote match request: connection reset", err.Error())
}
