// Package contact builds the URIs that hand a phone number to the device's
// dialer or messaging apps.
package contact

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

var ErrNoDigits = errors.New("phone number has no digits")

// Channel is a messaging app a member can be reached on.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// ParseChannel defaults to WhatsApp, which is how chamas usually talk.
func ParseChannel(s string) Channel {
	if strings.EqualFold(strings.TrimSpace(s), string(ChannelSMS)) {
		return ChannelSMS
	}
	return ChannelWhatsApp
}

// Dialable keeps a leading '+' and the digits of phone.
func Dialable(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	if strings.HasPrefix(phone, "+") {
		b.WriteByte('+')
	}
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
			digits++
		}
	}
	if digits == 0 {
		return "", ErrNoDigits
	}
	return b.String(), nil
}

// CallURI returns a tel: URI for phone.
func CallURI(phone string) (string, error) {
	d, err := Dialable(phone)
	if err != nil {
		return "", err
	}
	return "tel:" + d, nil
}

// MessageURI returns an sms: or https://wa.me/ URI, with body prefilled when
// non-empty.
func MessageURI(ch Channel, phone, body string) (string, error) {
	d, err := Dialable(phone)
	if err != nil {
		return "", err
	}
	switch ch {
	case ChannelSMS:
		uri := "sms:" + d
		if body != "" {
			uri += "?body=" + url.QueryEscape(body)
		}
		return uri, nil
	default:
		u := url.URL{Scheme: "https", Host: "wa.me", Path: "/" + strings.TrimPrefix(d, "+")}
		if body != "" {
			u.RawQuery = url.Values{"text": {body}}.Encode()
		}
		return u.String(), nil
	}
}
