package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"xhs-resolver/internal/domain"
	"xhs-resolver/test/fixtures"
)

func TestExtractTraceID_ThumbnailURL_ReturnsTraceID(t *testing.T) {
	// Act
	id, ok := domain.ExtractTraceID(fixtures.ThumbnailURL())

	// Assert
	if !ok {
		t.Fatal("expected a match")
	}
	if id != fixtures.SampleTraceID {
		t.Errorf("id: got %v, want %v", id, fixtures.SampleTraceID)
	}
}

func TestExtractTraceID_VariousInputs(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare id", input: fixtures.BareTraceID(), want: fixtures.SampleTraceID},
		{name: "embedded in text", input: fixtures.ShareSnippet(), want: fixtures.SampleTraceID},
		{name: "runs to end of input", input: "prefix/1040gabc", want: "1040gabc"},
		{name: "stops at first bang", input: "1040gabc!def!ghi", want: "1040gabc"},
		{name: "keeps query characters", input: "1040gabc?x=1", want: "1040gabc?x=1"},
		{name: "first of two", input: "1040gfirst!x 1040gsecond!y", want: "1040gfirst"},
		{name: "single char after prefix", input: "1040gZ", want: "1040gZ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			id, ok := domain.ExtractTraceID(tc.input)

			// Assert
			if !ok {
				t.Fatalf("expected a match for %q", tc.input)
			}
			if id != tc.want {
				t.Errorf("id: got %q, want %q", id, tc.want)
			}
		})
	}
}

func TestExtractTraceID_NoTraceID_ReturnsFalse(t *testing.T) {
	for _, input := range append(fixtures.UnrelatedInputs(), "") {
		// Act
		id, ok := domain.ExtractTraceID(input)

		// Assert
		if ok {
			t.Errorf("input %q: expected no match, got %q", input, id)
		}
	}
}

func TestExtractTraceID_DifferentPrefix_IsUnmatched(t *testing.T) {
	// Arrange
	input := "https://sns-webpic-qc.xhscdn.com/x/spectrum/1000g0k0200n7s6mlbo05o49b2u097vri7!nd_dft"

	// Act
	_, ok := domain.ExtractTraceID(input)

	// Assert
	if ok {
		t.Error("only the 1040g prefix is recognised")
	}
}

func TestHDURL_ConcatenatesWithoutTransformation(t *testing.T) {
	for _, id := range []string{fixtures.SampleTraceID, "1040g with spaces", "1040g/%2F?"} {
		// Act
		got := domain.HDURL(id)

		// Assert
		want := domain.HDBaseURL + id + domain.HDQuerySuffix
		if got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestResolve_ThumbnailURL_ReturnsScenarioResult(t *testing.T) {
	// Act
	res, ok := domain.Resolve(fixtures.ThumbnailURL())

	// Assert
	if !ok {
		t.Fatal("expected resolve to succeed")
	}
	if res.TraceID != fixtures.SampleTraceID {
		t.Errorf("TraceID: got %v, want %v", res.TraceID, fixtures.SampleTraceID)
	}
	if res.URL != fixtures.SampleHDURL {
		t.Errorf("URL: got %v, want %v", res.URL, fixtures.SampleHDURL)
	}
}

func TestResolve_IsPure(t *testing.T) {
	// Act
	first, ok1 := domain.Resolve(fixtures.ShareSnippet())
	second, ok2 := domain.Resolve(fixtures.ShareSnippet())

	// Assert
	if ok1 != ok2 || first != second {
		t.Errorf("resolve not deterministic: %+v vs %+v", first, second)
	}
}

func TestResolve_DerivedURL_YieldsSameTraceID(t *testing.T) {
	// Arrange
	res, _ := domain.Resolve(fixtures.ThumbnailURL())

	// Act
	again, ok := domain.ExtractTraceID(res.URL)

	// Assert
	// The query suffix has no '!', so the re-extracted match runs to the end.
	if !ok {
		t.Fatal("expected a match in derived URL")
	}
	if again != res.TraceID+domain.HDQuerySuffix {
		t.Errorf("got %v", again)
	}
	if id, _ := domain.ExtractTraceID(domain.HDBaseURL + res.TraceID); id != res.TraceID {
		t.Errorf("embedded id: got %v, want %v", id, res.TraceID)
	}
}

func TestResolve_NoMatch_ReturnsFalse(t *testing.T) {
	// Act
	res, ok := domain.Resolve("hello world")

	// Assert
	if ok {
		t.Errorf("expected no match, got %+v", res)
	}
}

func TestLocalFilename(t *testing.T) {
	cases := []struct {
		name    string
		traceID string
		want    string
	}{
		{"plain id unchanged", fixtures.SampleTraceID, "xhs_" + fixtures.SampleTraceID + ".png"},
		{"hd url suffix", "1040gabc?imageView2/2/w/format/png", "xhs_1040gabc_imageView2_2_w_format_png.png"},
		{"parent segments", "1040gx/../../escaped", "xhs_1040gx_.._.._escaped.png"},
		{"backslash and space", `1040ga\b c`, "xhs_1040ga_b_c.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.LocalFilename(tc.traceID)

			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
			if strings.ContainsAny(got, `/\`) {
				t.Errorf("%q contains a path separator", got)
			}
		})
	}
}

func TestFilename_UsesPrefixAndExtension(t *testing.T) {
	// Act
	got := domain.Filename(fixtures.SampleTraceID)

	// Assert
	if got != "xhs_"+fixtures.SampleTraceID+".png" {
		t.Errorf("got %v", got)
	}
}

func TestNewResolutionResult_EmptyInput_ReturnsErrEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		// Act
		_, err := domain.NewResolutionResult(input, time.Now())

		// Assert
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("input %q: expected ErrEmptyInput, got %v", input, err)
		}
	}
}

func TestNewResolutionResult_NoMatch_ReturnsErrNoMatch(t *testing.T) {
	// Act
	_, err := domain.NewResolutionResult("hello world", time.Now())

	// Assert
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestNewResolutionResult_Success_KeepsOriginalInput(t *testing.T) {
	// Arrange
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	input := "  " + fixtures.ThumbnailURL() + "  "

	// Act
	r, err := domain.NewResolutionResult(input, now)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.OriginalInput != input {
		t.Errorf("OriginalInput: got %q, want %q", r.OriginalInput, input)
	}
	if r.TraceID != fixtures.SampleTraceID {
		t.Errorf("TraceID: got %v", r.TraceID)
	}
	if r.HDURL != fixtures.SampleHDURL {
		t.Errorf("HDURL: got %v", r.HDURL)
	}
	if !r.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt: got %v, want %v", r.CreatedAt, now)
	}
}

func TestDownloadFailure_MatchesSentinelAndCause(t *testing.T) {
	// Arrange
	cause := errors.New("status 403")
	err := error(&domain.DownloadFailure{TraceID: "1040gx", FallbackURL: "u", Err: cause})

	// Assert
	if !errors.Is(err, domain.ErrDownloadFailed) {
		t.Error("expected ErrDownloadFailed in chain")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	var df *domain.DownloadFailure
	if !errors.As(err, &df) || df.FallbackURL != "u" {
		t.Error("expected errors.As to find DownloadFailure")
	}
}
