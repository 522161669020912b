package outlit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactFormFields(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]string
		denylist []string
		want     map[string]string
	}{
		{
			name:   "nil input",
			fields: nil,
			want:   nil,
		},
		{
			name:   "clean fields pass through",
			fields: map[string]string{"email": "user@example.com", "company": "Acme"},
			want:   map[string]string{"email": "user@example.com", "company": "Acme"},
		},
		{
			name:   "password dropped",
			fields: map[string]string{"email": "user@example.com", "password": "hunter2"},
			want:   map[string]string{"email": "user@example.com"},
		},
		{
			name:   "denied name matching is case-insensitive substring",
			fields: map[string]string{"user_Password_confirm": "x", "API_KEY": "k", "CVV": "123"},
			want:   nil,
		},
		{
			name:   "card-like value dropped regardless of field name",
			fields: map[string]string{"favorite_number": "4111 1111 1111 1111"},
			want:   nil,
		},
		{
			name:   "short digit values survive",
			fields: map[string]string{"age": "42", "zip": "10115"},
			want:   map[string]string{"age": "42", "zip": "10115"},
		},
		{
			name:     "configured denylist extends the built-in one",
			fields:   map[string]string{"internal_ref": "ref-9", "email": "user@example.com"},
			denylist: []string{"internal_ref"},
			want:     map[string]string{"email": "user@example.com"},
		},
		{
			name:     "empty denylist entry matches nothing",
			fields:   map[string]string{"email": "user@example.com"},
			denylist: []string{""},
			want:     map[string]string{"email": "user@example.com"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RedactFormFields(tc.fields, tc.denylist))
		})
	}
}
