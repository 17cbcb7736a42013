package request

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
)

const eventID = "6f1c1e34-4a1e-4d7e-9b8f-2f0c3d9a1b22"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Secret123", true},
		{"a1b2c3d4", true},
		{"short1", false},
		{"lettersonly", false},
		{"12345678", false},
	}
	for _, tt := range tests {
		err := validatePassword(tt.password)
		if tt.valid {
			assert.NoError(t, err, tt.password)
		} else {
			assert.ErrorIs(t, err, errInvalidPassword, tt.password)
		}
	}
}

func TestCreatePromotionRequest_Validate(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 3, 0)
	valid := func() CreatePromotionRequest {
		return CreatePromotionRequest{Code: "SUMMER", Value: decimal.NewFromInt(20), ValidFrom: &from, ValidUntil: &until}
	}

	req := valid()
	require.NoError(t, req.Validate())
	p := req.ToDomain()
	assert.Equal(t, domain.PromotionPercent, p.Kind)
	assert.True(t, p.IsActive)

	req = valid()
	req.Value = decimal.NewFromInt(150)
	assert.ErrorIs(t, req.Validate(), errPercentOver100)

	req.Kind = string(domain.PromotionFixed)
	assert.NoError(t, req.Validate())

	req = valid()
	req.Value = decimal.NewFromInt(-1)
	assert.Error(t, req.Validate())

	req = valid()
	req.ValidUntil = &time.Time{}
	assert.Error(t, req.Validate())

	req = valid()
	req.Code = "AB"
	assert.Error(t, req.Validate())
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	req := CreateOrderRequest{
		EventID:      eventID,
		Items:        []OrderItemRequest{{TicketTypeID: eventID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
		BillingName:  "Jane",
		BillingEmail: "jane@example.com",
	}
	require.NoError(t, req.Validate())

	in := req.ToInput()
	assert.Equal(t, eventID, in.EventID)
	require.Len(t, in.Items, 1)
	assert.Equal(t, 2, in.Items[0].Quantity)
	assert.Equal(t, "Jane", in.Billing.Name)

	req.Items[0].Quantity = 101
	assert.Error(t, req.Validate())

	req.Items[0].Quantity = 0
	assert.Error(t, req.Validate())

	req.Items[0].Quantity = 100
	require.NoError(t, req.Validate())

	req.Items[0].TicketTypeID = "not-a-uuid"
	assert.Error(t, req.Validate())

	req.Items = nil
	assert.Error(t, req.Validate())
}

func TestUpdateOrderRequest_Merge(t *testing.T) {
	email := "new@example.com"
	req := UpdateOrderRequest{BillingEmail: &email}
	require.NoError(t, req.Validate())

	merged := req.Merge(domain.Billing{Name: "Jane", Email: "old@example.com"})
	assert.Equal(t, domain.Billing{Name: "Jane", Email: "new@example.com"}, merged)

	empty := ""
	req.BillingName = &empty
	assert.Error(t, req.Validate())
}

func TestCreateTicketTypeRequest_Validate(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	req := CreateTicketTypeRequest{EventID: eventID, Title: "VIP", Price: decimal.NewFromInt(100), QuantityTotal: 50, Kind: "vip"}
	require.NoError(t, req.Validate())

	req.SalesStart, req.SalesEnd = &start, &end
	assert.Error(t, req.Validate())

	req.SalesEnd = nil
	req.Kind = "backstage"
	assert.Error(t, req.Validate())
}
