package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12", "12.00", false},
		{"12.3", "12.30", false},
		{"12.34", "12.34", false},
		{" 0.10 ", "0.10", false},
		{"12.3400", "12.34", false},
		{"12.345", "", true},
		{"abc", "", true},
		{"", "", true},
		{"-5.00", "-5.00", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			m, err := ParseMoney(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.String())
		})
	}
}

func TestMoneyAddIsExact(t *testing.T) {
	total := ZeroMoney()
	for i := 0; i < 10; i++ {
		total = total.Add(MoneyFromCents(10))
	}
	assert.Equal(t, "1.00", total.String())
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: MoneyFromCents(20000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 200.00}`, string(b))
	assert.Contains(t, string(b), "200.00")

	var got struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 10.5, "b": "3.25", "c": null}`), &got))
	assert.Equal(t, "10.50", got.A.String())
	assert.Equal(t, "3.25", got.B.String())
	assert.Nil(t, got.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a": 1.001}`), &got))
}

func TestZeroValueMoneyRendersAsZero(t *testing.T) {
	var m Money
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "0.00", string(b))
}
