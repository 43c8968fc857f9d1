package token

import (
	"reflect"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tokens := Tokenize("Hello World! This is a test.")
	want := []string{"hello", "world", "test"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizeFiltersShortTokens(t *testing.T) {
	tokens := Tokenize("I am a x y z developer")
	want := []string{"am", "developer"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizeEmptyString(t *testing.T) {
	tokens := Tokenize("")
	if tokens == nil {
		t.Fatal("Tokenize should return an empty slice, not nil")
	}
	if len(tokens) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", tokens)
	}
}

func TestTokenizeOnlyStopwords(t *testing.T) {
	tokens := Tokenize("the is a of to in for on with at by")
	if len(tokens) != 0 {
		t.Errorf("stopword-only input should yield no tokens, got %v", tokens)
	}
}

func TestTokenizeUnicode(t *testing.T) {
	tokens := Tokenize("café résumé naïve")
	want := []string{"café", "résumé", "naïve"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizeMixedCase(t *testing.T) {
	tokens := Tokenize("Rust PLUGIN NuShell")
	want := []string{"rust", "plugin", "nushell"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizePunctuationStripped(t *testing.T) {
	tokens := Tokenize("hello, world! great.")
	want := []string{"hello", "world", "great"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	text := "Repeated tokenization must be stable across runs."
	first := Tokenize(text)
	second := Tokenize(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs differ: %v vs %v", first, second)
	}
}

func TestTokenizeWithoutLowercase(t *testing.T) {
	opts := DefaultOptions()
	opts.Lowercase = false
	tokens := TokenizeWith("Rust Developer", opts)
	want := []string{"Rust", "Developer"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("TokenizeWith = %v, want %v", tokens, want)
	}
}

func TestTokenizeKeepsStopwordsWhenDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.RemoveStopwords = false
	tokens := TokenizeWith("the quick fox", opts)
	want := []string{"the", "quick", "fox"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("TokenizeWith = %v, want %v", tokens, want)
	}
}

func TestTokenizeMinLen(t *testing.T) {
	opts := DefaultOptions()
	opts.MinLen = 5
	tokens := TokenizeWith("tiny little elephants dance", opts)
	want := []string{"little", "elephants", "dance"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("TokenizeWith = %v, want %v", tokens, want)
	}
}

func TestTokenizeExtraStopwords(t *testing.T) {
	opts := DefaultOptions()
	opts.ExtraStopwords = []string{"rust"}
	tokens := TokenizeWith("Rust plugin system", opts)
	want := []string{"plugin", "system"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("TokenizeWith = %v, want %v", tokens, want)
	}
}

func TestTokenizeNgrams(t *testing.T) {
	opts := DefaultOptions()
	opts.NgramSize = 2
	tokens := TokenizeWith("rust plugin system", opts)
	want := []string{"rust plugin", "plugin system"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("TokenizeWith = %v, want %v", tokens, want)
	}
}

func TestTokenizeNgramsEmptyInput(t *testing.T) {
	opts := DefaultOptions()
	opts.NgramSize = 3
	tokens := TokenizeWith("", opts)
	if len(tokens) != 0 {
		t.Errorf("empty input with n-grams should stay empty, got %v", tokens)
	}
}

func TestShinglesBasic(t *testing.T) {
	got := Shingles("hello", 3)
	want := []string{"hel", "ell", "llo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shingles = %v, want %v", got, want)
	}
}

func TestShinglesShortText(t *testing.T) {
	got := Shingles("hi", 3)
	want := []string{"hi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shingles = %v, want %v", got, want)
	}
}

func TestShinglesEmptyString(t *testing.T) {
	got := Shingles("", 3)
	want := []string{""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shingles = %v, want %v", got, want)
	}
}

func TestShinglesExactLength(t *testing.T) {
	got := Shingles("abc", 3)
	want := []string{"abc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shingles = %v, want %v", got, want)
	}
}

func TestShinglesSingleChars(t *testing.T) {
	got := Shingles("abc", 1)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shingles = %v, want %v", got, want)
	}
}

func TestWordNgramsBasic(t *testing.T) {
	got := WordNgrams([]string{"rust", "plugin", "system"}, 2)
	want := []string{"rust plugin", "plugin system"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordNgrams = %v, want %v", got, want)
	}
}

func TestWordNgramsTrigrams(t *testing.T) {
	got := WordNgrams([]string{"a", "b", "c", "d"}, 3)
	want := []string{"a b c", "b c d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordNgrams = %v, want %v", got, want)
	}
}

func TestWordNgramsSingleToken(t *testing.T) {
	got := WordNgrams([]string{"rust"}, 2)
	want := []string{"rust"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordNgrams = %v, want %v", got, want)
	}
}

func TestWordNgramsEmpty(t *testing.T) {
	got := WordNgrams(nil, 2)
	want := []string{""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordNgrams = %v, want %v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("the") {
		t.Error("'the' should be a stopword")
	}
	if !IsStopword("The") {
		t.Error("stopword check should be case-insensitive")
	}
	if IsStopword("rust") {
		t.Error("'rust' should not be a stopword")
	}
}
