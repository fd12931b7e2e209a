package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "4045551234", want: "+14045551234", ok: true},
		{in: "14045551234", want: "+14045551234", ok: true},
		{in: "+14045551234", want: "+14045551234", ok: true},
		{in: "(404) 555-1234", want: "+14045551234", ok: true},
		{in: " +1 404.555.1234 ", want: "+14045551234", ok: true},
		{in: "442071838750", want: "+442071838750", ok: true},
		{in: "notaphone", ok: false},
		{in: "", ok: false},
		{in: "12345", ok: false},
		{in: "+0123456789", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizePhone(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	got, ok := NormalizeEmail("  Ada@Example.COM ")
	assert.True(t, ok)
	assert.Equal(t, "ada@example.com", got)

	_, ok = NormalizeEmail("ada at example")
	assert.False(t, ok)
}

func TestNormalizeChatID(t *testing.T) {
	got, ok := NormalizeChatID(" -100123 ")
	assert.True(t, ok)
	assert.Equal(t, "-100123", got)

	_, ok = NormalizeChatID("@gleeclub")
	assert.False(t, ok)
}

func TestParseRecipients(t *testing.T) {
	id := uuid.New()

	got := ParseRecipients([]string{id.String(), "4045551234", " ", "ada@example.com"})

	assert.Equal(t, []Recipient{
		UserRef(id),
		Address("4045551234"),
		Address("ada@example.com"),
	}, got)
}

func TestCompose(t *testing.T) {
	assert.Equal(t, "Glee Club: Ada - Rehearsal at 6", Compose("Glee Club", "Ada", "  Rehearsal at 6 ", 0))
	assert.Equal(t, "Glee Club: Someone - hi", Compose("Glee Club", "", "hi", 0))

	long := Compose("L", "S", "ééééééééé", 10)
	assert.Equal(t, 10, len([]rune(long)))
	assert.Equal(t, "L: S - ééé", long)
}
