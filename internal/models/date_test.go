package models

import (
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDateImplementsInterfaces verifies Date implements the database interfaces.
func TestDateImplementsInterfaces(t *testing.T) {
	var _ driver.Valuer = Date{}

	var d Date
	var scanner interface{} = &d
	if _, ok := scanner.(interface{ Scan(interface{}) error }); !ok {
		t.Error("Date does not implement sql.Scanner interface")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "iso", input: "2024-03-15", want: "2024-03-15"},
		{name: "ukrainian", input: "15.03.2024", want: "2024-03-15"},
		{name: "json_agg timestamptz", input: "2024-03-15T00:00:00+00:00", want: "2024-03-15"},
		{name: "padded", input: "  2024-03-15 ", want: "2024-03-15"},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 31, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-31", d.String())
	assert.Equal(t, "31.01.2024", d.Local())

	v, err := d.Value()
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, v)

	require.NoError(t, d.Scan(nil))
	assert.False(t, d.Valid())
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}{Set: NewDate(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"2023-12-01","unset":null}`, string(data))

	var decoded struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2023-12-01","b":null,"c":""}`), &decoded))
	assert.Equal(t, "2023-12-01", decoded.A.String())
	assert.False(t, decoded.B.Valid())
	assert.False(t, decoded.C.Valid())
}

// TestTaxDebtorFromJSONAgg decodes a row in the shape produced by json_agg.
func TestTaxDebtorFromJSONAgg(t *testing.T) {
	row := `{
		"id": 7,
		"name": "Петренко Іван Петрович",
		"identification": "1234567890",
		"date": "2024-05-01",
		"non_residential_debt": 100.50,
		"residential_debt": null,
		"land_debt": 20,
		"orenda_debt": null,
		"mpz": 0.25,
		"total_debt": 120.75,
		"cadastral_number": "3220881300:03:001:0001",
		"tax_address": "с. Вишневе"
	}`

	var debtor TaxDebtor
	require.NoError(t, json.Unmarshal([]byte(row), &debtor))

	assert.Equal(t, int64(7), debtor.ID)
	assert.True(t, debtor.NonResidentialDebt.Valid)
	assert.True(t, debtor.NonResidentialDebt.Decimal.Equal(decimal.RequireFromString("100.5")))
	assert.False(t, debtor.ResidentialDebt.Valid)
	assert.True(t, debtor.TotalDebt.Equal(decimal.RequireFromString("120.75")))
	assert.Equal(t, "2024-05-01", debtor.Date.String())
}
