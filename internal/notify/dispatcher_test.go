package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/mailer"
)

type recordingMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	started chan struct{}
	release chan struct{}
	err     error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)

	return m.err
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mailer.Message(nil), m.sent...)
}

func TestDispatcher_Send(t *testing.T) {
	m := &recordingMailer{}
	d, err := NewDispatcher(m, 1, 4)
	require.NoError(t, err)
	defer d.Shutdown(context.Background())

	err = d.Send(context.Background(), OrderConfirmation("jane@example.com", OrderConfirmationData{
		CustomerName: "Jane",
		OrderID:      "order-1",
		EventTitle:   "Go Meetup",
		Tickets:      []TicketLine{{Code: "ABC123", TicketType: "VIP", Price: "50.00"}},
		Subtotal:     "100.00",
		Discount:     "10.00",
		HasDiscount:  true,
		Total:        "90.00",
		Currency:     "USD",
	}))
	require.NoError(t, err)

	sent := m.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].To)
	assert.Equal(t, "Order Confirmed - Go Meetup", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "ABC123")
	assert.Contains(t, sent[0].HTML, "-USD 10.00")
	assert.Contains(t, sent[0].HTML, "Order ID: order-1")
}

func TestDispatcher_SendPropagatesMailerError(t *testing.T) {
	m := &recordingMailer{err: errors.New("smtp down")}
	d, err := NewDispatcher(m, 1, 1)
	require.NoError(t, err)
	defer d.Shutdown(context.Background())

	err = d.Send(context.Background(), PasswordReset("a@b.c", PasswordResetData{Name: "A", ResetURL: "http://x/reset?token=t"}))
	assert.ErrorContains(t, err, "smtp down")
}

func TestDispatcher_RendersEveryTemplate(t *testing.T) {
	m := &recordingMailer{}
	d, err := NewDispatcher(m, 1, 1)
	require.NoError(t, err)
	defer d.Shutdown(context.Background())

	emails := []Email{
		EventReminder("a@b.c", ReminderData{AttendeeName: "A", EventTitle: "Show", HoursUntilEvent: 24, TicketCode: "T1"}),
		CheckInConfirmation("a@b.c", CheckInData{AttendeeName: "A", EventTitle: "Show", TicketCode: "T1", Method: "QR"}),
		TeamInvite("a@b.c", InviteData{InviterName: "Bob", OrganizationName: "Acme", RoleName: "admin", InviteCode: "C0DE"}),
		PasswordReset("a@b.c", PasswordResetData{Name: "A", ResetURL: "http://x"}),
		Welcome("a@b.c", WelcomeData{Name: "A"}),
	}
	for _, e := range emails {
		require.NoError(t, d.Send(context.Background(), e), e.Template)
	}

	sent := m.messages()
	require.Len(t, sent, len(emails))
	assert.Equal(t, "Reminder: Show starts in 1 day(s)", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "T1")
	assert.Contains(t, sent[2].HTML, "C0DE")
}

func TestDispatcher_EnqueueDrainsOnShutdown(t *testing.T) {
	m := &recordingMailer{}
	d, err := NewDispatcher(m, 2, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.True(t, d.Enqueue(Welcome("a@b.c", WelcomeData{Name: "A"})))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.Len(t, m.messages(), 5)
	assert.False(t, d.Enqueue(Welcome("a@b.c", WelcomeData{Name: "A"})))
}

func TestDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	m := &recordingMailer{
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
	d, err := NewDispatcher(m, 1, 1)
	require.NoError(t, err)

	require.True(t, d.Enqueue(Welcome("1@b.c", WelcomeData{})))
	<-m.started

	assert.True(t, d.Enqueue(Welcome("2@b.c", WelcomeData{})))
	assert.False(t, d.Enqueue(Welcome("3@b.c", WelcomeData{})))

	close(m.release)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Len(t, m.messages(), 2)
}

func TestTimeLabel(t *testing.T) {
	assert.Equal(t, "1 day(s)", TimeLabel(24))
	assert.Equal(t, "2 day(s)", TimeLabel(48))
	assert.Equal(t, "1 hour(s)", TimeLabel(1))
	assert.Equal(t, "now", TimeLabel(0))
}
