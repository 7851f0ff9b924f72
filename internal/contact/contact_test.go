package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallURI(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"+254712345678", "tel:+254712345678"},
		{" +254 712-345 678 ", "tel:+254712345678"},
		{"0712345678", "tel:0712345678"},
	}
	for _, tt := range tests {
		got, err := CallURI(tt.phone)
		require.NoError(t, err, tt.phone)
		assert.Equal(t, tt.want, got)
	}

	_, err := CallURI("n/a")
	assert.ErrorIs(t, err, ErrNoDigits)
}

func TestMessageURI(t *testing.T) {
	got, err := MessageURI(ChannelWhatsApp, "+254 723 456 789", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/254723456789", got)

	got, err = MessageURI(ChannelWhatsApp, "+254723456789", "Hi John, a reminder")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/254723456789?text=Hi+John%2C+a+reminder", got)

	got, err = MessageURI(ChannelSMS, "+254723456789", "pay & smile")
	require.NoError(t, err)
	assert.Equal(t, "sms:+254723456789?body=pay+%26+smile", got)

	_, err = MessageURI(ChannelSMS, "  ", "")
	assert.ErrorIs(t, err, ErrNoDigits)
}

func TestParseChannel(t *testing.T) {
	assert.Equal(t, ChannelSMS, ParseChannel(" SMS"))
	assert.Equal(t, ChannelWhatsApp, ParseChannel("whatsapp"))
	assert.Equal(t, ChannelWhatsApp, ParseChannel(""))
}
