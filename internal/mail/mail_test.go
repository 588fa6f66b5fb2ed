package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	from := sgmail.NewEmail("Care Ledger", "no-reply@example.com")

	m := buildMessage(from, Message{
		ToEmail: "jo@example.com",
		ToName:  "Jo",
		Subject: "Visit rescheduled",
		Text:    "Your visit moved to 14:00",
	})

	assert.Equal(t, "Visit rescheduled", m.Subject)
	assert.Equal(t, "no-reply@example.com", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "jo@example.com", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "<p>Your visit moved to 14:00</p>", m.Content[1].Value)
}

func TestSendGrid_Send(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "Accepted", status: http.StatusAccepted},
		{name: "Rejected", status: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v3/mail/send", r.URL.Path)
				assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

				raw, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(raw, &body)

				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			s := newSendGridWithHost("key", srv.URL, "no-reply@example.com", "Care Ledger")

			err := s.Send(context.Background(), Message{ToEmail: "jo@example.com", Subject: "Hi", Text: "Hello"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, "Hi", body["subject"])
		})
	}
}

func TestLog_Send(t *testing.T) {
	assert.NoError(t, Log{}.Send(context.Background(), Message{ToEmail: "jo@example.com"}))
}
