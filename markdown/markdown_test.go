package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineNested(t *testing.T) {
	input := "**bold *italic* text**"
	expected := "<strong>bold <em>italic</em> text</strong>"
	if got := FormatInline(input); got != expected {
		t.Errorf("FormatInline(%q) = %q, want %q", input, got, expected)
	}
}

func TestFormatInlineCode(t *testing.T) {
	got := FormatInline("run `go test` now")
	if got != "run <code>go test</code> now" {
		t.Errorf("FormatInline = %q", got)
	}
}

func TestFormatInlineCodeNotFormatted(t *testing.T) {
	// Backticked content must come through literally.
	got := FormatInline("use `**argv` here")
	if !strings.Contains(got, "<code>**argv</code>") {
		t.Errorf("FormatInline = %q, backticked content was formatted", got)
	}
}

func TestFormatInlineLink(t *testing.T) {
	got := FormatInline("see [the docs](https://example.com/docs)")
	expected := `see <a href="https://example.com/docs">the docs</a>`
	if got != expected {
		t.Errorf("FormatInline = %q, want %q", got, expected)
	}
}

func TestFormatInlineLinkUnsafeScheme(t *testing.T) {
	got := FormatInline("[click](javascript:alert(1))")
	if strings.Contains(got, "javascript") {
		t.Errorf("FormatInline = %q, unsafe scheme leaked", got)
	}
	if !strings.Contains(got, "click") {
		t.Errorf("FormatInline = %q, link text lost", got)
	}
}

func TestFormatInlineLinkURLNotItalicized(t *testing.T) {
	got := FormatInline("[x](https://example.com/a_b_c)")
	if strings.Contains(got, "<em>") {
		t.Errorf("FormatInline = %q, underscores in URL were formatted", got)
	}
}

func TestFormatInlineImage(t *testing.T) {
	got := FormatInline("![alt text](https://example.com/pic.jpg)")
	if !strings.Contains(got, `<img alt="alt text"`) || !strings.Contains(got, `src="https://example.com/pic.jpg"`) {
		t.Errorf("FormatInline = %q", got)
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	got := FormatInline("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("FormatInline = %q, raw HTML passed through", got)
	}
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Render(&buf, tt.input)
		if got := buf.String(); got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderParagraphs(t *testing.T) {
	got := ToHTML("first line\nsecond line\n\nnext para")
	if got != "<p>first line second line</p><p>next para</p>" {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestRenderUnorderedList(t *testing.T) {
	got := ToHTML("- one\n- two\n\nafter")
	if got != "<ul><li>one</li><li>two</li></ul><p>after</p>" {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestRenderOrderedList(t *testing.T) {
	got := ToHTML("1. first\n2. second")
	if got != "<ol><li>first</li><li>second</li></ol>" {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestRenderBlockquote(t *testing.T) {
	got := ToHTML("> quoted words")
	if got != "<blockquote>quoted words</blockquote>" {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestRenderHorizontalRule(t *testing.T) {
	got := ToHTML("before\n\n---\n\nafter")
	if got != "<p>before</p><hr/><p>after</p>" {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := ToHTML("```\ncode here\n```")
	if !strings.Contains(got, "<pre><code>") || !strings.Contains(got, "code here") {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := ToHTML("```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("ToHTML = %q, missing language class", got)
	}
}

func TestRenderCodeBlockNotFormatted(t *testing.T) {
	got := ToHTML("```\n**not bold** # not a heading\n```")
	if strings.Contains(got, "<strong>") || strings.Contains(got, "<h1>") {
		t.Errorf("ToHTML = %q, code block content was formatted", got)
	}
}

func TestRenderUnterminatedCodeBlock(t *testing.T) {
	got := ToHTML("```\nopen ended")
	if !strings.HasSuffix(got, "</code></pre>") {
		t.Errorf("ToHTML = %q, code block left unclosed", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"mailto:hi@example.com", "mailto:hi@example.com"},
		{"tel:+15550100", "tel:+15550100"},
		{"/blog/some-post", "/blog/some-post"},
		{"#section", "#section"},
		{"javascript:alert(1)", ""},
		{"data:text/html,x", ""},
		{"", ""},
		{"no-scheme.example.com", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
