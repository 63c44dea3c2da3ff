package extract

import "testing"

func TestExtractFigureUsesSrc(t *testing.T) {
	doc := mustDoc(t, `<figure id="f"><img src="https://img.lemde.fr/800/450/photo.jpg"><figcaption> Une légende </figcaption></figure>`)
	img := extractFigure(doc.Find("#f"))

	if img == nil {
		t.Fatalf("expected image")
	}
	if img.URI != "https://img.lemde.fr/800/450/photo.jpg" {
		t.Fatalf("uri = %q", img.URI)
	}
	if want := 800.0 / 450.0; img.Ratio != want {
		t.Fatalf("ratio = %v, want %v", img.Ratio, want)
	}
	if img.Caption != "Une légende" {
		t.Fatalf("caption = %q", img.Caption)
	}
}

func TestExtractFigureFallsBackToDataSrc(t *testing.T) {
	doc := mustDoc(t, `<figure id="f"><img data-src="https://img.lemde.fr/lazy.jpg"></figure>`)
	img := extractFigure(doc.Find("#f"))

	if img == nil || img.URI != "https://img.lemde.fr/lazy.jpg" {
		t.Fatalf("expected data-src fallback, got %#v", img)
	}
	if img.Ratio != 0 {
		t.Fatalf("expected no ratio for dimensionless url, got %v", img.Ratio)
	}
}

func TestExtractFigureNilWithoutSource(t *testing.T) {
	doc := mustDoc(t, `<figure id="f"><img alt="placeholder"><figcaption>perdue</figcaption></figure>`)
	if img := extractFigure(doc.Find("#f")); img != nil {
		t.Fatalf("expected nil for sourceless figure, got %#v", img)
	}
}

func TestExtractFigureOmitsEmptyCaption(t *testing.T) {
	doc := mustDoc(t, `<figure id="f"><img src="x.jpg"><figcaption>   </figcaption></figure>`)
	img := extractFigure(doc.Find("#f"))

	if img == nil {
		t.Fatalf("expected image")
	}
	if img.Caption != "" {
		t.Fatalf("expected absent caption, got %q", img.Caption)
	}
}

func TestImageRatioRequiresNonZeroDimensions(t *testing.T) {
	if got := imageRatio("https://img.lemde.fr/0/450/photo.jpg"); got != 0 {
		t.Fatalf("expected zero ratio for zero width, got %v", got)
	}
	if got := imageRatio("https://img.lemde.fr/plain.jpg"); got != 0 {
		t.Fatalf("expected zero ratio without dimensions, got %v", got)
	}
}
