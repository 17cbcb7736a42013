package dao

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	user       User
	event      Event
	ticketType TicketType
	order      Order
}

func seed(t *testing.T, db *gorm.DB, quantityTotal int) fixture {
	t.Helper()
	ctx := context.Background()

	user, err := NewUserDAO(db).Insert(ctx, User{Email: uuid.NewString() + "@example.com", Password: "x", Name: "Ada", Role: "user"})
	require.NoError(t, err)

	event, err := NewEventDAO(db).Insert(ctx, Event{
		Title:       "Concert",
		OrganizerID: uuid.NewString(),
		Status:      "published",
		StartAt:     time.Now().Add(24 * time.Hour),
		EndAt:       time.Now().Add(26 * time.Hour),
		Timezone:    "UTC",
	})
	require.NoError(t, err)

	tt, err := NewTicketTypeDAO(db).Insert(ctx, TicketType{
		EventID:       event.ID,
		Title:         "General",
		Price:         decimal.NewFromInt(50),
		Currency:      "USD",
		QuantityTotal: quantityTotal,
		Kind:          "general",
	})
	require.NoError(t, err)

	order, err := NewOrderDAO(db).Insert(ctx, Order{
		UserID:      user.ID,
		EventID:     event.ID,
		Items:       datatypes.NewJSONType([]OrderItem{{TicketTypeID: tt.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)}}),
		AmountTotal: decimal.NewFromInt(100),
		Currency:    "USD",
		Status:      "pending",
	})
	require.NoError(t, err)

	return fixture{user: user, event: event, ticketType: tt, order: order}
}

func ticketsFor(f fixture, n int) []Ticket {
	tickets := make([]Ticket, n)
	for i := range tickets {
		tickets[i] = Ticket{
			TicketTypeID: f.ticketType.ID,
			EventID:      f.event.ID,
			OrderID:      f.order.ID,
			OwnerID:      f.user.ID,
			Code:         uuid.NewString(),
			Status:       "active",
			IssuedAt:     time.Now(),
		}
	}
	return tickets
}

func TestOrderDAO_Capture(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)
	orders := NewOrderDAO(db)

	paid, err := orders.Capture(ctx, Capture{
		OrderID:           f.order.ID,
		Provider:          "stripe",
		ProviderPaymentID: "pi_1",
		CapturedAt:        time.Now(),
		Tickets:           ticketsFor(f, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.CapturedAt)

	tt, err := NewTicketTypeDAO(db).FindByID(ctx, f.ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tt.QuantitySold)

	tickets, err := NewTicketDAO(db).FindAll(ctx, TicketFilter{OrderID: f.order.ID})
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	_, err = orders.Capture(ctx, Capture{OrderID: f.order.ID, Provider: "stripe", ProviderPaymentID: "pi_2", CapturedAt: time.Now()})
	assert.ErrorIs(t, err, ErrOrderWrongStatus)
}

func TestOrderDAO_Capture_Oversell(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 1)

	_, err := NewOrderDAO(db).Capture(ctx, Capture{
		OrderID:           f.order.ID,
		Provider:          "stripe",
		ProviderPaymentID: "pi_1",
		CapturedAt:        time.Now(),
		Tickets:           ticketsFor(f, 2),
	})
	assert.ErrorIs(t, err, ErrTicketTypeSoldOut)

	order, err := NewOrderDAO(db).FindByID(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)

	tickets, err := NewTicketDAO(db).FindAll(ctx, TicketFilter{OrderID: f.order.ID})
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestOrderDAO_Capture_ReplayedPayment(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)
	orders := NewOrderDAO(db)

	_, err := orders.Capture(ctx, Capture{OrderID: f.order.ID, Provider: "stripe", ProviderPaymentID: "pi_1", CapturedAt: time.Now()})
	require.NoError(t, err)

	other, err := orders.Insert(ctx, Order{
		UserID:      f.user.ID,
		EventID:     f.event.ID,
		Items:       datatypes.NewJSONType([]OrderItem{}),
		AmountTotal: decimal.Zero,
		Status:      "pending",
		Currency:    "USD",
	})
	require.NoError(t, err)

	_, err = orders.Capture(ctx, Capture{OrderID: other.ID, Provider: "stripe", ProviderPaymentID: "pi_1", CapturedAt: time.Now()})
	assert.ErrorIs(t, err, ErrPaymentAlreadyCaptured)
}

func TestAttendanceDAO_CheckIn_Concurrent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)

	ticket, err := NewTicketDAO(db).Insert(ctx, ticketsFor(f, 1)[0])
	require.NoError(t, err)

	attendance := NewAttendanceDAO(db)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := attendance.CheckIn(ctx, Attendance{
				TicketID:    ticket.ID,
				EventID:     f.event.ID,
				CheckedInAt: time.Now(),
				Method:      "qr",
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	used, err := NewTicketDAO(db).FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "used", used.Status)

	count, err := attendance.CountByEvent(ctx, f.event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPromotionDAO_IncrementUsage(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	promotions := NewPromotionDAO(db)
	maxUses := 2

	p, err := promotions.Insert(ctx, Promotion{
		Code:       "TWICE",
		Kind:       "fixed",
		Value:      decimal.NewFromInt(5),
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		MaxUses:    &maxUses,
		IsActive:   true,
	})
	require.NoError(t, err)

	_, err = promotions.Insert(ctx, Promotion{Code: "TWICE", Kind: "fixed", ValidFrom: time.Now(), ValidUntil: time.Now()})
	assert.ErrorIs(t, err, ErrPromotionCodeExists)

	p, err = promotions.IncrementUsage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.UsedCount)
	assert.True(t, p.IsActive)

	p, err = promotions.IncrementUsage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.UsedCount)
	assert.False(t, p.IsActive)

	_, err = promotions.IncrementUsage(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPromotionExhausted)
}

func TestReviewDAO_UniquePerEventAndUser(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)
	reviews := NewReviewDAO(db)

	r, err := reviews.Insert(ctx, Review{EventID: f.event.ID, UserID: f.user.ID, Rating: 4})
	require.NoError(t, err)

	_, err = reviews.Insert(ctx, Review{EventID: f.event.ID, UserID: f.user.ID, Rating: 5})
	assert.ErrorIs(t, err, ErrReviewExists)

	avg, err := reviews.AverageRating(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = reviews.SetApproved(ctx, r.ID, true)
	require.NoError(t, err)

	avg, err = reviews.AverageRating(ctx, f.event.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)
}

func TestTicketDAO_Transition(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)
	tickets := NewTicketDAO(db)

	ticket, err := tickets.Insert(ctx, ticketsFor(f, 1)[0])
	require.NoError(t, err)

	_, err = tickets.Insert(ctx, Ticket{
		TicketTypeID: f.ticketType.ID, EventID: f.event.ID, OrderID: f.order.ID, OwnerID: f.user.ID,
		Code: ticket.Code, Status: "active", IssuedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrTicketCodeExists)

	used, err := tickets.Transition(ctx, ticket.ID, "active", "used")
	require.NoError(t, err)
	assert.Equal(t, "used", used.Status)

	_, err = tickets.Transition(ctx, ticket.ID, "active", "cancelled")
	assert.ErrorIs(t, err, ErrTicketWrongStatus)

	err = tickets.Delete(ctx, ticket.ID)
	assert.ErrorIs(t, err, ErrTicketWrongStatus)

	_, err = tickets.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestReminderDAO(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)
	reminders := NewReminderDAO(db)

	ticket, err := NewTicketDAO(db).Insert(ctx, ticketsFor(f, 1)[0])
	require.NoError(t, err)

	recipients, err := reminders.FindRecipients(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, f.user.Email, recipients[0].Email)
	assert.Equal(t, ticket.ID, recipients[0].TicketID)
	assert.Equal(t, ticket.Code, recipients[0].TicketCode)
	assert.Equal(t, f.ticketType.Title, recipients[0].TicketType)

	delivery := ReminderDelivery{EventID: f.event.ID, TicketID: ticket.ID, Email: f.user.Email, LeadHours: 24, SentAt: time.Now()}
	_, err = reminders.Insert(ctx, delivery)
	require.NoError(t, err)

	_, err = reminders.Insert(ctx, delivery)
	assert.ErrorIs(t, err, ErrReminderAlreadySent)

	sent, err := reminders.Exists(ctx, f.event.ID, f.user.Email, 24)
	require.NoError(t, err)
	assert.True(t, sent)
}
