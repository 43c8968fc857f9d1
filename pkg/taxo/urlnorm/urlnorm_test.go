package urlnorm

import "testing"

func TestNormalizeBasic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/path/", "https://example.com/path"},
		{"https://www.example.com", "https://example.com"},
		{"https://example.com/page#section", "https://example.com/page"},
		{"example.com/page", "https://example.com/page"},
		{"https://example.com:443/page", "https://example.com/page"},
		{"http://example.com:80/page", "http://example.com/page"},
		{"https://example.com:8080/page", "https://example.com:8080/page"},
		{"https://example.com///", "https://example.com"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeRemovesTrackingParams(t *testing.T) {
	got := Normalize("https://example.com/page?utm_source=twitter&id=123")
	want := "https://example.com/page?id=123"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	// When every parameter is tracking noise the query disappears entirely.
	got = Normalize("https://example.com/page?utm_source=x&fbclid=abc&ref=home")
	want = "https://example.com/page"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeSortsQueryParams(t *testing.T) {
	got := Normalize("https://example.com/?b=2&a=1")
	want := "https://example.com/?a=1&b=2"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeBareQueryKeys(t *testing.T) {
	got := Normalize("https://example.com/?flag=&a=1")
	want := "https://example.com/?a=1&flag"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeLowercasesSchemeAndHost(t *testing.T) {
	got := Normalize("HTTPS://WWW.Example.COM/Keep/Case")
	want := "https://example.com/Keep/Case"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeUnicodeHost(t *testing.T) {
	got := Normalize("https://münchen.de/path")
	want := "https://xn--mnchen-3ya.de/path"
	if got != want {
		t.Errorf("Expected punycode host, got %q", got)
	}
}

func TestNormalizeIPv6Host(t *testing.T) {
	got := Normalize("http://[2001:db8::1]:8080/x")
	want := "http://[2001:db8::1]:8080/x"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got = Normalize("https://[::1]:443/")
	want = "https://[::1]"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeInvalidInputUnchanged(t *testing.T) {
	for _, in := range []string{"", "   ", "not a url", "http://"} {
		if got := Normalize(in); got != in {
			t.Errorf("Normalize(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	urls := []string{
		"https://www.Example.com:443/p?utm_source=x&id=9#f",
		"example.com/page",
		"https://example.com/?b=2&a=1",
		"https://münchen.de/path",
	}
	for _, u := range urls {
		once := Normalize(u)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestNormalizeFullCleanup(t *testing.T) {
	in := "https://www.Example.com:443/p?utm_source=x&id=9#f"
	if got := Normalize(in); got != "https://example.com/p?id=9" {
		t.Errorf("Normalize(%q) = %q", in, got)
	}
	if got := CanonicalKey(in); got != "example.com/p?id=9" {
		t.Errorf("CanonicalKey(%q) = %q", in, got)
	}
}

func TestCanonicalKeyMergesSchemes(t *testing.T) {
	a := CanonicalKey("https://www.example.com/page")
	b := CanonicalKey("http://example.com/page/")
	if a != b {
		t.Errorf("Canonical keys should match: %q vs %q", a, b)
	}
	if a != "example.com/page" {
		t.Errorf("Expected example.com/page, got %q", a)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Web Dev", "web-dev"},
		{"AI & ML", "ai-ml"},
		{"Hello, World!", "hello-world"},
		{"already-slugged", "already-slugged"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"Rust 101", "rust-101"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
