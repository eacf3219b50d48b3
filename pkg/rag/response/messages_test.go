package response

import "testing"

func TestMissingFieldsMessage(t *testing.T) {
	tests := []struct {
		fields []string
		want   string
	}{
		{[]string{"date", "time"}, "Please provide the missing fields: date,time"},
		{[]string{"name", "email", "date", "time"}, "Please provide the missing fields: name,email,date,time"},
		{[]string{"email"}, "Please provide the missing fields: email"},
	}

	for _, tt := range tests {
		if got := MissingFieldsMessage(tt.fields); got != tt.want {
			t.Errorf("MissingFieldsMessage(%v) = %q, want %q", tt.fields, got, tt.want)
		}
	}
}
