package mocks

import (
	"context"
	"sync"

	"github.com/taskhive/taskhive-api/internal/notify"
)

// MockMailer implements notify.Mailer for testing
type MockMailer struct {
	// SendFn allows test cases to mock the Send behavior
	SendFn func(ctx context.Context, to, subject, body string) error

	// Err is returned by the default implementation when set
	Err error

	mu    sync.Mutex
	sends []SentMail
}

// SentMail records one delivered message.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// Send implements the notify.Mailer interface
func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, to, subject, body)
	}

	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sends...)
}

// MockSender implements notify.Sender for testing
type MockSender struct {
	// DispatchFn allows test cases to mock the Dispatch behavior
	DispatchFn func(n notify.Notification) error

	// Err is returned by the default implementation when set
	Err error

	mu            sync.Mutex
	notifications []notify.Notification
}

// Dispatch implements the notify.Sender interface
func (m *MockSender) Dispatch(n notify.Notification) error {
	if m.DispatchFn != nil {
		return m.DispatchFn(n)
	}

	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

// Dispatched returns a copy of the recorded notifications.
func (m *MockSender) Dispatched() []notify.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notification(nil), m.notifications...)
}

// DispatchedOf filters the recorded notifications by kind.
func (m *MockSender) DispatchedOf(kind notify.Kind) []notify.Notification {
	var out []notify.Notification
	for _, n := range m.Dispatched() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
