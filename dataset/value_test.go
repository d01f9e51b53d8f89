package dataset

import (
	"testing"
	"time"
)

func TestValueVariants(t *testing.T) {
	tests := []struct {
		name      string
		value     Value
		wantNull  bool
		wantFloat float64
		wantOK    bool
	}{
		{name: "number", value: Number(3.5), wantFloat: 3.5, wantOK: true},
		{name: "numeric text coerces", value: Text("42"), wantFloat: 42, wantOK: true},
		{name: "plain text", value: Text("hello"), wantOK: false},
		{name: "null", value: Null(), wantNull: true, wantOK: false},
		{name: "empty text is null", value: Text(""), wantNull: true, wantOK: false},
		{name: "whitespace text is null", value: Text("   "), wantNull: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsNull(); got != tt.wantNull {
				t.Errorf("IsNull() = %v, want %v", got, tt.wantNull)
			}
			f, ok := tt.value.Float()
			if ok != tt.wantOK {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && f != tt.wantFloat {
				t.Errorf("Float() = %v, want %v", f, tt.wantFloat)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	if !Number(7).Equal(Text("7")) {
		t.Error("numeric text should equal its numeric counterpart")
	}
	if Number(7).Equal(Number(8)) {
		t.Error("distinct numbers should not be equal")
	}
	if !Null().Equal(Text("")) {
		t.Error("empty text should equal null")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{in: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "2024/03/15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "not a date", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(Text(tt.in))
		if ok != tt.wantOK {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, ok := ParseDate(Number(20240315)); ok {
		t.Error("numbers should not parse as dates")
	}
}
