package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFields = Fields{
	"payer_name":     {Column: "payer_name", Strategy: ILike},
	"status":         {Column: "status", Strategy: Exact},
	"amount_from":    {Column: "amount", Strategy: From, Cast: "numeric"},
	"amount_to":      {Column: "amount", Strategy: To, Cast: "numeric"},
	"document_date":  {Column: "document_date", Strategy: Between, Cast: "date"},
	"tax_classifier": {Column: "tax_classifier", Strategy: In},
	"tax_number":     {Column: "tax_number", Strategy: ILike, List: true},
	"payer_address":  {Column: "payer_address", Strategy: ILike},
}

func TestBuild_EmptyValuesProduceNothing(t *testing.T) {
	cases := []map[string]any{
		nil,
		{},
		{"payer_name": nil},
		{"payer_name": "", "status": "   "},
		{"amount_from": nil, "amount_to": "", "document_date": nil, "tax_classifier": ""},
		{"unknown": "value", "payer_name": ""},
	}

	for _, filters := range cases {
		b, err := Build(testFields, filters, 1)
		require.NoError(t, err)
		assert.Equal(t, "", b.Where(), "filters %v", filters)
		assert.Empty(t, b.Args(), "filters %v", filters)
		assert.NotNil(t, b.Args())
	}
}

func TestBuild_Strategies(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]any
		where   string
		args    []any
	}{
		{
			name:    "ilike substring",
			filters: map[string]any{"payer_name": "Петренко"},
			where:   " AND payer_name ILIKE $1",
			args:    []any{"%Петренко%"},
		},
		{
			name:    "exact",
			filters: map[string]any{"status": "Paid"},
			where:   " AND status = $1",
			args:    []any{"Paid"},
		},
		{
			name:    "exact with comma becomes membership",
			filters: map[string]any{"status": "Paid, Delivered"},
			where:   " AND status::text = ANY($1::text[])",
			args:    []any{[]string{"Paid", "Delivered"}},
		},
		{
			name:    "in",
			filters: map[string]any{"tax_classifier": "18010500,18010700"},
			where:   " AND tax_classifier::text = ANY($1::text[])",
			args:    []any{[]string{"18010500", "18010700"}},
		},
		{
			name:    "from and to",
			filters: map[string]any{"amount_from": 10.5, "amount_to": "200"},
			where:   " AND amount >= $1::text::numeric AND amount <= $2::text::numeric",
			args:    []any{"10.5", "200"},
		},
		{
			name:    "between with separator",
			filters: map[string]any{"document_date": "2024-01-01_2024-12-31"},
			where:   " AND document_date BETWEEN $1::text::date AND $2::text::date",
			args:    []any{"2024-01-01", "2024-12-31"},
		},
		{
			name:    "between without separator is a single date",
			filters: map[string]any{"document_date": "2024-05-01"},
			where:   " AND document_date = $1::text::date",
			args:    []any{"2024-05-01"},
		},
		{
			name:    "list field with comma becomes membership",
			filters: map[string]any{"tax_number": "1234567890, 0987654321"},
			where:   " AND tax_number::text = ANY($1::text[])",
			args:    []any{[]string{"1234567890", "0987654321"}},
		},
		{
			name:    "list field with one value stays a substring match",
			filters: map[string]any{"tax_number": "123456"},
			where:   " AND tax_number ILIKE $1",
			args:    []any{"%123456%"},
		},
		{
			name:    "address keeps its comma",
			filters: map[string]any{"payer_address": "вул. Шевченка, 5"},
			where:   " AND payer_address ILIKE $1",
			args:    []any{"%вул. Шевченка, 5%"},
		},
		{
			name:    "unknown keys are dropped",
			filters: map[string]any{"1=1; drop table": "x", "status": "Paid"},
			where:   " AND status = $1",
			args:    []any{"Paid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Build(testFields, tt.filters, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.where, b.Where())
			assert.Equal(t, tt.args, b.Args())
		})
	}
}

func TestBuild_InvalidBetween(t *testing.T) {
	for _, value := range []string{"2024-01-01_", "_2024-01-01", "a_b_c"} {
		_, err := Build(testFields, map[string]any{"document_date": value}, 1)
		assert.ErrorIs(t, err, ErrInvalidFilter, value)
	}
}

func TestBuilder_StartAtAndBind(t *testing.T) {
	b, err := Build(testFields, map[string]any{"status": "Paid"}, 3)
	require.NoError(t, err)
	assert.Equal(t, " AND status = $3", b.Where())

	assert.Equal(t, "$4", b.Bind(10))
	assert.Equal(t, "$5", b.Bind(20))
	assert.Equal(t, []any{"Paid", 10, 20}, b.Args())
}

func TestBuilder_Title(t *testing.T) {
	b := NewBuilder(1)
	b.Title("  ", "payer_name", "tax_address")
	assert.Equal(t, "", b.Where())

	b.Title("Київ", "payer_name", "tax_address", "cadastral_number")
	require.NoError(t, b.Add(testFields["status"], "Paid"))

	assert.Equal(t,
		" AND (payer_name ILIKE $1 OR tax_address ILIKE $1 OR cadastral_number ILIKE $1) AND status = $2",
		b.Where())
	assert.Equal(t, []any{"%Київ%", "Paid"}, b.Args())
}

func TestContains_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off\\%`, Contains(`50%_off\`))
}

func TestScalar(t *testing.T) {
	s, ok := scalar(json.Number("12.30"))
	assert.True(t, ok)
	assert.Equal(t, "12.30", s)

	_, ok = scalar([]any{"a"})
	assert.False(t, ok)

	var nilString *string
	_, ok = scalar(nilString)
	assert.False(t, ok)

	s, ok = scalar(int64(42))
	assert.True(t, ok)
	assert.Equal(t, "42", s)
}
