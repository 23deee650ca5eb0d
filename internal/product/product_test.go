package product

import (
	"encoding/json"
	"errors"
	"testing"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Product_New(t *testing.T) {
	testCases := []struct {
		name        string
		inputName   string
		inputPrice  string
		expectField string
	}{
		{name: "Success - valid product", inputName: "Widget", inputPrice: "9.99"},
		{name: "Error - empty name", inputName: "", inputPrice: "9.99", expectField: "name"},
		{name: "Error - blank name", inputName: "   \t", inputPrice: "9.99", expectField: "name"},
		{name: "Error - zero price", inputName: "Widget", inputPrice: "0", expectField: "price"},
		{name: "Error - negative price", inputName: "Widget", inputPrice: "-0.01", expectField: "price"},
		{name: "Success - trailing zero beyond scale", inputName: "Widget", inputPrice: "12.500"},
		{name: "Success - largest price", inputName: "Widget", inputPrice: "99999999999999999.99"},
		{name: "Error - sub-cent price", inputName: "Widget", inputPrice: "0.001", expectField: "price"},
		{name: "Error - three decimal places", inputName: "Widget", inputPrice: "9.999", expectField: "price"},
		{name: "Error - price at column limit", inputName: "Widget", inputPrice: "100000000000000000", expectField: "price"},
		{name: "Error - exponent price", inputName: "Widget", inputPrice: "1e20", expectField: "price"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			price := decimal.RequireFromString(tc.inputPrice)

			// when
			p, err := New(tc.inputName, price)

			// then
			if tc.expectField == "" {
				require.NoError(t, err)
				assert.False(t, p.HasID())
				assert.Equal(t, tc.inputName, p.Name)
				assert.True(t, price.Equal(p.Price))
				return
			}
			require.ErrorIs(t, err, perrors.ErrValidation)
			var vErr *perrors.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.expectField, vErr.Field)
		})
	}
}

func Test_Product_Apply(t *testing.T) {
	// given
	original, err := New("Widget", decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	original = original.WithID(1)

	// when
	updated, err := original.Apply("Widget", decimal.RequireFromString("12.50"))

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(updated.Price))
	assert.True(t, decimal.RequireFromString("9.99").Equal(original.Price), "original value must not change")

	_, err = original.Apply("", decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, perrors.ErrValidation)
}

func Test_Product_JSON(t *testing.T) {
	// given
	p := Product{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.99")}

	// when
	data, err := json.Marshal(p)

	// then
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Widget","price":9.99}`, string(data))

	var decoded Product
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Widget","price":12.50}`), &decoded))
	assert.False(t, decoded.HasID())
	assert.True(t, decimal.RequireFromString("12.5").Equal(decoded.Price))
}
