package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"table error", "E100", "Route table is invalid", CategoryTable},
		{"source error", "E111", "Route table source not found", CategorySource},
		{"config error", "E120", "Invalid configuration", CategoryConfig},
		{"request error", "E130", "Request path rejected", CategoryRequest},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "routes.js")
	if err.Message != `file "routes.js" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
	if err.Error() != `file "routes.js" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCodedErrorError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New("E110").WithDetail("reading routes.json").Wrap(cause)

	want := "E110: Route table source could not be read (reading routes.json): boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New("E101")
	wrapped := fmt.Errorf("outer: %w", coded)
	if got := FromError(wrapped, "E100"); got != coded {
		t.Error("FromError should return the coded error found in the chain")
	}

	plain := fmt.Errorf("plain")
	got := FromError(plain, "E110")
	if got.Code != "E110" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New("E121"))
	if !HasCode(err, "E121") {
		t.Error("HasCode should find E121 through wrapping")
	}
	if HasCode(err, "E120") {
		t.Error("HasCode should not find E120")
	}
	if HasCode(nil, "E120") {
		t.Error("HasCode(nil) should be false")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E100").
		WithDetail("2 problems").
		WithSuggestion("Move the * entry to the end").
		Wrap(fmt.Errorf("first\nsecond"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E100: Route table is invalid",
		"2 problems",
		"  first\n  second\n",
		"Hint: Move the * entry to the end",
		"Learn more: https://docroutes.vango.dev/errors/E100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "E100: Route table is invalid" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("E130").WithDetail("path contains backslash")

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal: %v", jerr)
	}

	var got map[string]string
	if jerr := json.Unmarshal(data, &got); jerr != nil {
		t.Fatalf("Unmarshal: %v", jerr)
	}
	if got["code"] != "E130" || got["category"] != "request" || got["detail"] != "path contains backslash" {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("wrap: %w", New("E140")))
	if !strings.Contains(buf.String(), "ERROR E140: Invalid command usage") {
		t.Errorf("coded output = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, fmt.Errorf("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("plain output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}
