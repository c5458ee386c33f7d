package preview

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vanderheijden86/sitegraph/pkg/augment"
	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

const samplePage = `<!doctype html>
<html>
<head>
<title>Drought Indices Part 2</title>
<meta name="description" content="A tour of SPI and SPEI computation.">
</head>
<body>
<span class="reading-time">7 min read</span>
<main><p>Standardized precipitation indices need careful baseline choices.</p></main>
</body>
</html>`

func TestParse_TitleDescriptionReadingTime(t *testing.T) {
	meta, err := Parse(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.Title != "Drought Indices Part 2" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "A tour of SPI and SPEI computation." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.ReadingTime != "7 min read" {
		t.Errorf("reading time = %q", meta.ReadingTime)
	}
	if meta.Degraded {
		t.Error("parsed metadata should not be degraded")
	}
}

func TestParse_FallsBackToFirstParagraph(t *testing.T) {
	page := `<html><head><title>Notes</title></head><body><p>  First paragraph here.  </p><p>Second.</p></body></html>`
	meta, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.Description != "First paragraph here." {
		t.Errorf("description = %q", meta.Description)
	}
}

func TestTruncate_LongDescription(t *testing.T) {
	long := strings.Repeat("água ", 60)
	got := Truncate(long, DescriptionLimit)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if n := len([]rune(got)); n > DescriptionLimit+1 {
		t.Errorf("truncated length = %d runes", n)
	}
}

func TestTruncate_ShortUnchanged(t *testing.T) {
	if got := Truncate("short", DescriptionLimit); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestPageMetadata_ScrapesLivePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notes/drought-part-2/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	src := NewHTMLSource(srv.URL, []model.Node{
		{ID: "notes-drought-part-2", Label: "Drought 2", Path: "/notes/drought-part-2/", Category: model.CategoryNotes},
	})
	meta := src.PageMetadata(context.Background(), "/notes/drought-part-2/")
	if meta.Degraded {
		t.Fatal("expected live metadata, got degraded")
	}
	if meta.Title != "Drought Indices Part 2" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Path != "/notes/drought-part-2/" {
		t.Errorf("path = %q", meta.Path)
	}
}

func TestPageMetadata_DegradesOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTMLSource(srv.URL, []model.Node{
		{ID: "about", Label: "About", Path: "/about/", Category: model.CategoryNav},
	})
	meta := src.PageMetadata(context.Background(), "/about/")
	if !meta.Degraded {
		t.Fatal("expected degraded metadata")
	}
	if meta.Title != "About" {
		t.Errorf("degraded title = %q, want known label", meta.Title)
	}
	if meta.Path != "/about/" {
		t.Errorf("degraded path = %q", meta.Path)
	}
}

func TestPageMetadata_DegradedUnknownPathUsesSlug(t *testing.T) {
	src := NewHTMLSource("http://127.0.0.1:1", nil)
	meta := src.PageMetadata(context.Background(), "/reading/ipcc-ar6/")
	if !meta.Degraded {
		t.Fatal("expected degraded metadata")
	}
	if meta.Title != "reading-ipcc-ar6" {
		t.Errorf("degraded title = %q", meta.Title)
	}
}

func TestParse_FindsInjectedReadingTime(t *testing.T) {
	page := `<!doctype html>
<html><head><title>Heat Stress</title></head>
<body><main><h1>Heat Stress</h1>
<p>Wet-bulb temperature limits outdoor work during heatwaves.</p>
</main></body></html>`

	store := graph.NewStore([]model.Node{
		model.NewNode("/notes/heat/", "Heat Stress"),
	}, nil)
	out, err := augment.Apply([]byte(page), store, "/notes/heat/")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	meta, err := Parse(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.ReadingTime != "1 min read" {
		t.Errorf("reading time = %q, want the injected annotation", meta.ReadingTime)
	}
}
