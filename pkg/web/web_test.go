package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name     string
		pathID   string
		wantID   int64
		wantOK   bool
		wantBody string
	}{
		{name: "valid", pathID: "42", wantID: 42, wantOK: true},
		{name: "not a number", pathID: "abc", wantBody: `{"error":"Invalid ID: abc"}`},
		{name: "zero", pathID: "0", wantBody: `{"error":"Invalid ID: 0"}`},
		{name: "negative", pathID: "-5", wantBody: `{"error":"Invalid ID: -5"}`},
		{name: "overflow", pathID: "99999999999999999999", wantBody: `{"error":"Invalid ID: 99999999999999999999"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/product/"+tc.pathID, nil)
			req.SetPathValue("id", tc.pathID)
			rr := httptest.NewRecorder()

			// when
			id, ok := ParseID(rr, req, discardLogger())

			// then
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
			if !tc.wantOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, tc.wantBody, rr.Body.String())
			}
		})
	}
}

type priced struct {
	Name  string          `validate:"notblank,max=5"`
	Price decimal.Decimal `validate:"decimal_gt=0,decimal_max_places=2,decimal_lt=1000"`
}

type positive struct {
	Amount decimal.Decimal `validate:"decimal_gt=0"`
}

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name       string
		input      priced
		wantFields map[string]string
	}{
		{name: "valid", input: priced{Name: "ok", Price: decimal.RequireFromString("0.01")}},
		{name: "trailing zeros", input: priced{Name: "ok", Price: decimal.RequireFromString("999.990")}},
		{
			name:       "blank name",
			input:      priced{Name: "   ", Price: decimal.RequireFromString("1")},
			wantFields: map[string]string{"Name": "failed on rule: notblank"},
		},
		{
			name:       "zero price",
			input:      priced{Name: "ok", Price: decimal.Zero},
			wantFields: map[string]string{"Price": "failed on rule: decimal_gt"},
		},
		{
			name:       "too many places",
			input:      priced{Name: "ok", Price: decimal.RequireFromString("9.999")},
			wantFields: map[string]string{"Price": "failed on rule: decimal_max_places"},
		},
		{
			name:       "at upper bound",
			input:      priced{Name: "ok", Price: decimal.RequireFromString("1000")},
			wantFields: map[string]string{"Price": "failed on rule: decimal_lt"},
		},
		{
			name:  "both invalid",
			input: priced{Name: "toolongname", Price: decimal.RequireFromString("-1")},
			wantFields: map[string]string{
				"Name":  "failed on rule: max",
				"Price": "failed on rule: decimal_gt",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.input)
			if tc.wantFields == nil {
				require.NoError(t, err)
				return
			}
			fields, ok := FieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, tc.wantFields, fields)
		})
	}
}

func TestNewValidator_ComparesDecimalsExactly(t *testing.T) {
	v := NewValidator()

	// 1e-400 underflows to 0 as a float64
	tiny := positive{Amount: decimal.RequireFromString("1e-400")}
	huge := positive{Amount: decimal.RequireFromString("1e400")}
	negTiny := positive{Amount: decimal.RequireFromString("-1e-400")}

	assert.NoError(t, v.Struct(tiny))
	assert.NoError(t, v.Struct(huge))
	assert.Error(t, v.Struct(negTiny))
}

func TestFieldErrors_NotValidationError(t *testing.T) {
	_, ok := FieldErrors(io.EOF)
	assert.False(t, ok)
}

func TestRequestIDInjector(t *testing.T) {
	var seen string
	h := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
