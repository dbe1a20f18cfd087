package testutil

import (
	"strings"
	"testing"

	"github.com/yhat/scrape"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses a rendered page or fails the test.
func ParseHTML(t *testing.T, body string) *html.Node {
	t.Helper()

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Could not parse HTML response: %v", err)
	}
	return root
}

// Page wraps a parsed document with lookups used by page assertions.
type Page struct {
	Root *html.Node
}

func NewPage(t *testing.T, body string) *Page {
	t.Helper()
	return &Page{Root: ParseHTML(t, body)}
}

func (p *Page) HasID(id string) bool {
	_, ok := scrape.Find(p.Root, scrape.ById(id))
	return ok
}

func (p *Page) HasClass(class string) bool {
	_, ok := scrape.Find(p.Root, scrape.ByClass(class))
	return ok
}

func (p *Page) HasTag(tag atom.Atom) bool {
	_, ok := scrape.Find(p.Root, scrape.ByTag(tag))
	return ok
}

// TextOfClass returns the text of the first element carrying class, or "".
func (p *Page) TextOfClass(class string) string {
	node, ok := scrape.Find(p.Root, scrape.ByClass(class))
	if !ok {
		return ""
	}
	return scrape.Text(node)
}

// ContainsText reports whether any text node of the document contains s.
func (p *Page) ContainsText(s string) bool {
	return strings.Contains(scrape.Text(p.Root), s)
}

// Attr returns attribute key of the first tag element, and whether the tag exists.
func (p *Page) Attr(tag atom.Atom, key string) (string, bool) {
	node, ok := scrape.Find(p.Root, scrape.ByTag(tag))
	if !ok {
		return "", false
	}
	return scrape.Attr(node, key), true
}

func (p *Page) AssertLoginPrompt(t *testing.T) {
	t.Helper()

	if !p.HasClass("login-prompt") || !p.ContainsText("Please Log In") {
		t.Errorf("Expected the login prompt to be rendered")
	}
	if !p.HasID("login-button") {
		t.Errorf("Expected the Log In control to be rendered")
	}
	if p.HasID("logout-button") {
		t.Errorf("Expected no Log Out control on the login prompt")
	}
	if p.HasClass("user-profile") || p.HasClass("authenticated-content") {
		t.Errorf("Expected no profile display on the login prompt")
	}
}

func (p *Page) AssertDashboard(t *testing.T) {
	t.Helper()

	if !p.HasClass("authenticated-content") {
		t.Errorf("Expected the authenticated dashboard to be rendered")
	}
	if !p.HasID("logout-button") {
		t.Errorf("Expected the Log Out control to be rendered")
	}
	if p.HasID("login-button") {
		t.Errorf("Expected no Log In control on the dashboard")
	}
	if p.HasClass("login-prompt") || p.ContainsText("Please Log In") {
		t.Errorf("Expected no login prompt on the dashboard")
	}
}

func (p *Page) AssertFallback(t *testing.T) {
	t.Helper()

	if !p.HasClass("error-container") || !p.ContainsText("Something went wrong") {
		t.Errorf("Expected the error fallback to be rendered")
	}
	if p.HasID("login-button") || p.HasID("logout-button") || p.HasClass("container") {
		t.Errorf("Expected none of the page children in the error fallback")
	}
}
