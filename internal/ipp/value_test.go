package ipp

import (
	"errors"
	"testing"
)

func TestParseInt(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name   string
		text   string
		want   int64
		expErr bool
	}{
		{name: "decimal", text: "42", want: 42},
		{name: "negative", text: "-7", want: -7},
		{name: "explicit positive", text: "+7", want: 7},
		{name: "hex", text: "0x2A", want: 42},
		{name: "octal prefix", text: "0o52", want: 42},
		{name: "leading zero octal", text: "052", want: 42},
		{name: "malformed", text: "4x2", expErr: true},
		{name: "empty", text: "", expErr: true},
	}

	for _, tc := range tcs {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseInt(tc.text)

			if tc.expErr {
				if err == nil {
					t.Fatalf("ParseInt(%q): expected error", tc.text)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseInt(%q): unexpected error: %s", tc.text, err)
			}

			if got != tc.want {
				t.Errorf("ParseInt(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseString(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		text string
		want string
	}{
		{name: "plain", text: "hello", want: "hello"},
		{name: "escaped space", text: "a\\032b", want: "a b"},
		{name: "escaped backslash", text: "a\\092b", want: "a\\b"},
		{name: "bare backslash", text: "a\\b", want: "a\\b"},
		{name: "trailing short escape", text: "a\\09", want: "a\\09"},
	}

	for _, tc := range tcs {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseString(tc.text); got != tc.want {
				t.Errorf("ParseString(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	if !ParseBool("true") || !ParseBool("TRUE") {
		t.Error(`ParseBool("true"/"TRUE") should be true`)
	}

	if ParseBool("false") || ParseBool("") {
		t.Error(`ParseBool("false"/"") should be false`)
	}
}

func TestParseTypeToken(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		text string
		want Kind
	}{
		{"int", KindInt},
		{"float", KindFloat},
		{"string", KindString},
		{"bool", KindBool},
	}

	for _, tc := range tcs {
		got, err := ParseTypeToken(tc.text)
		if err != nil {
			t.Fatalf("ParseTypeToken(%q): unexpected error: %s", tc.text, err)
		}

		if got != tc.want {
			t.Errorf("ParseTypeToken(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}

	if _, err := ParseTypeToken("nil"); err == nil {
		t.Error(`ParseTypeToken("nil") should fail: nil is not a primitive type`)
	} else {
		var malformed *ErrMalformedLiteral
		if !errors.As(err, &malformed) {
			t.Errorf("expected *ErrMalformedLiteral, got %T", err)
		}
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	if !MaskIntFloat.has(KindInt) || !MaskIntFloat.has(KindFloat) {
		t.Error("MaskIntFloat should accept int and float")
	}

	if MaskIntFloat.has(KindString) {
		t.Error("MaskIntFloat should reject string")
	}
}
