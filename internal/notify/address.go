package notify

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

var (
	e164Pattern   = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
	chatIDPattern = regexp.MustCompile(`^-?[0-9]{1,20}$`)
	phoneNoise    = strings.NewReplacer(" ", "", "\t", "", "-", "", ".", "", "(", "", ")", "", "/", "")

	validate = validator.New()
)

// domesticCode is the North American country code assumed for bare numbers.
const domesticCode = "1"

// NormalizePhone returns the E.164 form of s, or false when s is not a phone number.
func NormalizePhone(s string) (string, bool) {
	n := phoneNoise.Replace(strings.TrimSpace(s))
	if n == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(n, "+"):
	case len(n) == 10 && isDigits(n):
		n = "+" + domesticCode + n
	case len(n) == 11 && isDigits(n) && strings.HasPrefix(n, domesticCode):
		n = "+" + n
	default:
		n = "+" + n
	}

	if !e164Pattern.MatchString(n) {
		return "", false
	}
	return n, true
}

// NormalizeEmail lower-cases s and checks it is a mail address.
func NormalizeEmail(s string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(s))
	if e == "" || validate.Var(e, "email") != nil {
		return "", false
	}
	return e, true
}

// NormalizeChatID accepts numeric Telegram chat ids.
func NormalizeChatID(s string) (string, bool) {
	c := strings.TrimSpace(s)
	if !chatIDPattern.MatchString(c) {
		return "", false
	}
	return c, true
}

func normalizeAddress(channel model.Channel, s string) (string, bool) {
	switch channel {
	case model.ChannelSMS:
		return NormalizePhone(s)
	case model.ChannelEmail:
		return NormalizeEmail(s)
	case model.ChannelTelegram:
		return NormalizeChatID(s)
	default:
		return "", false
	}
}

// contactFor picks the profile field used on channel.
func contactFor(channel model.Channel, p *model.Profile) string {
	switch channel {
	case model.ChannelSMS:
		return p.PhoneNumber
	case model.ChannelEmail:
		return p.Email
	case model.ChannelTelegram:
		return p.TelegramChatID
	default:
		return ""
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
