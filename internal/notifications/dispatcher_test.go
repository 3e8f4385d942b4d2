package notifications

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/email"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []email.Message
	err      error
	panics   bool
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	if f.panics {
		panic("sender exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return f.err
}

func (f *fakeSender) sent() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]email.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

type fakeTenantReader struct {
	contact string
	err     error
}

func (f *fakeTenantReader) ContactEmail(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return f.contact, f.err
}

func newTestDispatcher(t *testing.T, sender Sender, tenants TenantReader) *Dispatcher {
	t.Helper()
	dispatcher, err := NewDispatcher(DispatcherParams{
		Sender:  sender,
		Tenants: tenants,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return dispatcher
}

func paidOrder(customerEmail *string) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		OrderNumber:   1042,
		TotalCents:    10890,
		Currency:      "USD",
		CustomerEmail: customerEmail,
	}
}

func TestDispatcherDeliversCustomerAndSellerEmails(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(t, sender, &fakeTenantReader{contact: "seller@vitrina.test"})

	customer := "buyer@example.com"
	dispatcher.OrderPaid(paidOrder(&customer))
	dispatcher.Wait()

	messages := sender.sent()
	require.Len(t, messages, 2)
	assert.Equal(t, []string{"buyer@example.com"}, messages[0].To)
	assert.Equal(t, "Payment received for order 1042", messages[0].Subject)
	assert.Contains(t, messages[0].HTML, "order <strong>1042</strong>")
	assert.Contains(t, messages[0].HTML, "108.90 USD")
	assert.Equal(t, []string{"seller@vitrina.test"}, messages[1].To)
	assert.Equal(t, "Order 1042 was paid", messages[1].Subject)
}

func TestDispatcherSkipsMissingRecipients(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(t, sender, &fakeTenantReader{contact: ""})

	dispatcher.OrderPaid(paidOrder(nil))
	dispatcher.Wait()

	assert.Empty(t, sender.sent())
}

func TestDispatcherSwallowsSendFailures(t *testing.T) {
	sender := &fakeSender{err: pkgerrors.New(pkgerrors.CodeDependency, "smtp down")}
	dispatcher := newTestDispatcher(t, sender, &fakeTenantReader{contact: "seller@vitrina.test"})

	customer := "buyer@example.com"
	dispatcher.OrderPaid(paidOrder(&customer))
	dispatcher.Wait()

	// Both deliveries were attempted despite the first failing.
	assert.Len(t, sender.sent(), 2)
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	sender := &fakeSender{panics: true}
	dispatcher := newTestDispatcher(t, sender, &fakeTenantReader{contact: "seller@vitrina.test"})

	customer := "buyer@example.com"
	dispatcher.OrderPaid(paidOrder(&customer))
	dispatcher.Wait()
}
