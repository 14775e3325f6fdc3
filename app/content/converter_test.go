package content

import (
	"strings"
	"testing"

	"github.com/lysyi3m/wxr-comb/app/config"
)

func TestConverter_HTMLPassthrough(t *testing.T) {
	html := `<p>Hello <strong>world</strong></p>`

	out, err := NewConverter(config.FormatHTML).Run(html)
	if err != nil {
		t.Fatal(err)
	}
	if out != html {
		t.Errorf("Expected passthrough, got %q", out)
	}
}

func TestConverter_Markdown(t *testing.T) {
	html := `<h2>Title</h2><p>Hello <strong>world</strong> and <a href="https://example.com">a link</a></p>`

	for _, format := range []config.Format{config.FormatMarkdown, config.FormatMD} {
		out, err := NewConverter(format).Run(html)
		if err != nil {
			t.Fatal(err)
		}

		for _, fragment := range []string{"## Title", "**world**", "[a link](https://example.com)"} {
			if !strings.Contains(out, fragment) {
				t.Errorf("Expected %s output to contain %q, got %q", format, fragment, out)
			}
		}
	}
}

func TestConverter_Text(t *testing.T) {
	out, err := NewConverter(config.FormatText).Run(`<p>Hello <em>plain</em> text</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello plain text" {
		t.Errorf("Expected 'Hello plain text', got %q", out)
	}
}
