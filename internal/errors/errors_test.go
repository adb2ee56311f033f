package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"
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
		{
			name:    "structure error",
			code:    "K001",
			wantMsg: "Duplicate node",
			wantCat: CategoryStructure,
		},
		{
			name:    "render error",
			code:    "K010",
			wantMsg: "Widget render panicked",
			wantCat: CategoryRender,
		},
		{
			name:    "config error",
			code:    "K020",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "K999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
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
	err := Newf(CategoryCLI, "flag %q is required", "frames")
	if err.Message != `flag "frames" is required` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
	if err.Error() != `flag "frames" is required` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestKayakError_Error(t *testing.T) {
	err := New("K003")
	if got, want := err.Error(), "K003: Unknown parent node"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("K021").Wrap(fmt.Errorf("open kayak.json: permission denied"))
	if got, want := wrapped.Error(), "K021: Configuration file unreadable: open kayak.json: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := fmt.Errorf("frame 3: %w", New("K010").Wrap(cause))

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New("K010")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New("K011")) {
		t.Error("errors.Is should not match a different code")
	}

	var ke *KayakError
	if !stderrors.As(err, &ke) || ke.Code != "K010" {
		t.Errorf("errors.As = %v, want K010", ke)
	}
}

func TestHasCode(t *testing.T) {
	inner := New("K001")
	outer := New("K011").Wrap(inner)

	if !HasCode(outer, "K011") {
		t.Error("HasCode(outer, K011) = false")
	}
	if !HasCode(outer, "K001") {
		t.Error("HasCode(outer, K001) = false")
	}
	if HasCode(outer, "K020") {
		t.Error("HasCode(outer, K020) = true")
	}
	if HasCode(fmt.Errorf("plain"), "K001") {
		t.Error("HasCode(plain) = true")
	}
	if HasCode(nil, "K001") {
		t.Error("HasCode(nil) = true")
	}

	joined := stderrors.Join(New("K010"), New("K011"))
	if !HasCode(joined, "K011") {
		t.Error("HasCode(joined, K011) = false")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "K020") != nil {
		t.Error("FromError(nil) should be nil")
	}

	original := New("K001")
	if got := FromError(original, "K020"); got != original {
		t.Error("FromError should return existing KayakError unchanged")
	}

	plain := fmt.Errorf("bad json")
	got := FromError(plain, "K021")
	if got.Code != "K021" || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("K003").
		WithDetail("parent n4v1 is not in the tree").
		WithSuggestion("Add the parent before adding its children")

	out := err.Format()
	for _, want := range []string{
		"ERROR K003: Unknown parent node",
		"parent n4v1 is not in the tree",
		"Hint: Add the parent before adding its children",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() contains ANSI codes with colors disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("K002").WithDetail("n1v1 under n3v1")
	if got, want := err.FormatCompact(), "K002: Cycle detected (n1v1 under n3v1)"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("K020").WithSuggestion("use a positive value").Wrap(fmt.Errorf("demo.frames = -1"))

	var decoded map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON is not valid JSON: %v", jerr)
	}
	if decoded["code"] != "K020" {
		t.Errorf("code = %q", decoded["code"])
	}
	if decoded["category"] != "config" {
		t.Errorf("category = %q", decoded["category"])
	}
	if decoded["cause"] != "demo.frames = -1" {
		t.Errorf("cause = %q", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("", 10); got != nil {
		t.Errorf("wrapText(empty) = %v", got)
	}
	lines := wrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range lines {
		if len(line) > 15 {
			t.Errorf("line %q longer than width", line)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("K030"))
	if !strings.Contains(buf.String(), "K030") {
		t.Errorf("PrintError output = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, fmt.Errorf("plain failure"))
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("PrintError output = %q", buf.String())
	}
}

func TestPrintErrorJoined(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := stderrors.Join(
		New("K010").WithDetail("node 3@1 panicked"),
		fmt.Errorf("frame: %w", New("K011")),
		fmt.Errorf("plain failure"),
	)

	var buf bytes.Buffer
	PrintError(&buf, err)
	out := buf.String()
	for _, want := range []string{"ERROR K010: Widget render panicked", "node 3@1 panicked", "ERROR K011", "ERROR: plain failure"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintError output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("PrintError output has colors while disabled: %q", out)
	}
}

func TestPrintJSON(t *testing.T) {
	err := stderrors.Join(New("K030").WithDetail("--frames must be >= 0"), fmt.Errorf("plain failure"))

	var buf bytes.Buffer
	PrintJSON(&buf, err, CategoryCLI)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("PrintJSON wrote %d lines, want 2: %q", len(lines), buf.String())
	}
	var first, second map[string]string
	if jerr := json.Unmarshal([]byte(lines[0]), &first); jerr != nil {
		t.Fatalf("line 1 is not JSON: %v", jerr)
	}
	if jerr := json.Unmarshal([]byte(lines[1]), &second); jerr != nil {
		t.Fatalf("line 2 is not JSON: %v", jerr)
	}
	if first["code"] != "K030" || first["detail"] != "--frames must be >= 0" {
		t.Errorf("line 1 = %v", first)
	}
	if second["code"] != "" || second["message"] != "plain failure" || second["category"] != "cli" {
		t.Errorf("line 2 = %v", second)
	}

	buf.Reset()
	PrintJSON(&buf, nil, CategoryCLI)
	if buf.Len() != 0 {
		t.Errorf("PrintJSON(nil) wrote %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("GetTemplate(%s) missing", code)
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s has empty message or category", code)
		}
	}

	codes := GetAllCodes()
	if !slices.IsSorted(codes) {
		t.Errorf("GetAllCodes() not sorted: %v", codes)
	}
	if _, ok := GetTemplate("K999"); ok {
		t.Error("GetTemplate(K999) found an unregistered code")
	}
}
