package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFirstOfMonth(t *testing.T) {
	d := NewDate(2024, time.January, 20)
	assert.Equal(t, "2024-01-01", d.FirstOfMonth().String())
}

func TestDateOfDropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	d := DateOf(time.Date(2024, time.March, 9, 23, 30, 0, 0, loc))
	assert.Equal(t, "2024-03-09", d.String())
	assert.Equal(t, time.UTC, d.Location())
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-01"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-05"`), &d))
	assert.Equal(t, NewDate(2024, time.January, 5), d)

	assert.Error(t, json.Unmarshal([]byte(`"05/01/2024"`), &d))
}

func TestUpdateExpenseRequestApplyOnlyProvidedFields(t *testing.T) {
	e := Expense{ID: 1, Description: "Lunch", Amount: MoneyFromCents(1000), CategoryID: 3, WalletID: 4}
	desc := "Dinner"
	UpdateExpenseRequest{Description: &desc}.Apply(&e)

	assert.Equal(t, "Dinner", e.Description)
	assert.Equal(t, "10.00", e.Amount.String())
	assert.Equal(t, int64(3), e.CategoryID)
	assert.Equal(t, int64(4), e.WalletID)
}
