package ocr

import (
	"math"
	"strings"
	"testing"

	"github.com/tsawler/prepress/model"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
 <head>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title="image &quot;page.png&quot;; bbox 0 0 2550 3300; ppageno 0">
   <div class="ocr_carea" id="block_1_1" title="bbox 300 280 2250 560">
    <p class="ocr_par" id="par_1_1" title="bbox 300 280 2250 560">
     <span class="ocr_line" id="line_1_1" title="bbox 300 280 2250 420; baseline 0 -10">
      <span class="ocrx_word" id="word_1_1" title="bbox 300 280 980 420; x_wconf 96">Annual</span>
      <span class="ocrx_word" id="word_1_2" title="bbox 1020 280 2250 420; x_wconf 92">Report</span>
     </span>
     <span class="ocr_line" id="line_1_2" title="bbox 300 480 1400 560; baseline 0 -6">
      <span class="ocrx_word" id="word_1_3" title="bbox 300 480 760 560; x_wconf 88">Fiscal</span>
      <span class="ocrx_word" id="word_1_4" title="bbox 800 480 1400 560; x_wconf 84">2025</span>
     </span>
    </p>
   </div>
   <div class="ocr_carea" id="block_1_2" title="bbox 300 700 2300 820">
    <p class="ocr_par" id="par_1_2" title="bbox 300 700 2300 820">
     <span class="ocr_line" id="line_1_3" title="bbox 300 700 2300 820">
      <span class="ocrx_word" id="word_1_5" title="bbox 300 700 2300 820; x_wconf 71">Revenue grew steadily.</span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	blocks, err := ParseHOCR([]byte(sampleHOCR), 3)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 line blocks, got %d", len(blocks))
	}

	first := blocks[0]
	if first.Text != "Annual Report" {
		t.Errorf("Expected text %q, got %q", "Annual Report", first.Text)
	}
	if first.Page != 3 {
		t.Errorf("Expected page 3, got %d", first.Page)
	}
	if first.Source != model.SourceOCR {
		t.Errorf("Expected OCR source, got %v", first.Source)
	}

	wantBox := model.NewBBox(300, 280, 1950, 140)
	if first.BBox != wantBox {
		t.Errorf("Expected bbox %+v, got %+v", wantBox, first.BBox)
	}

	// Mean of x_wconf 96 and 92 is 94.
	if math.Abs(first.Confidence-0.94) > 1e-9 {
		t.Errorf("Expected confidence 0.94, got %v", first.Confidence)
	}

	if blocks[1].Text != "Fiscal 2025" {
		t.Errorf("Expected second line %q, got %q", "Fiscal 2025", blocks[1].Text)
	}
	if math.Abs(blocks[2].Confidence-0.71) > 1e-9 {
		t.Errorf("Expected third line confidence 0.71, got %v", blocks[2].Confidence)
	}
}

func TestParseHOCRDocumentOrder(t *testing.T) {
	blocks, err := ParseHOCR([]byte(sampleHOCR), 1)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].BBox.Top() < blocks[i-1].BBox.Top() {
			t.Errorf("Block %d out of reading order: top %v before %v",
				i, blocks[i].BBox.Top(), blocks[i-1].BBox.Top())
		}
	}
}

func TestParseHOCRSkipsMalformedLines(t *testing.T) {
	input := `<html><body>
	 <span class="ocr_line" title="bbox 10 10 nonsense 40">
	  <span class="ocrx_word" title="bbox 10 10 90 40; x_wconf 90">bad</span>
	 </span>
	 <span class="ocr_line">
	  <span class="ocrx_word" title="x_wconf 90">no box</span>
	 </span>
	 <span class="ocr_line" title="bbox 10 50 200 90">
	  <span class="ocrx_word" title="bbox 10 50 200 90; x_wconf 80">kept</span>
	 </span>
	</body></html>`

	blocks, err := ParseHOCR([]byte(input), 1)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "kept" {
		t.Errorf("Expected surviving block %q, got %q", "kept", blocks[0].Text)
	}
}

func TestParseHOCRWordWithoutConfidence(t *testing.T) {
	input := `<html><body>
	 <span class="ocr_line" title="bbox 0 0 100 20">
	  <span class="ocrx_word" title="bbox 0 0 100 20">word</span>
	 </span>
	</body></html>`

	blocks, err := ParseHOCR([]byte(input), 1)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Confidence != 0 {
		t.Errorf("Expected zero confidence when x_wconf is absent, got %v", blocks[0].Confidence)
	}
}

func TestParseHOCREmptyDocument(t *testing.T) {
	blocks, err := ParseHOCR([]byte("<html><body></body></html>"), 1)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("Expected no blocks for empty document, got %d", len(blocks))
	}
}

func TestParseHOCRLatin1Charset(t *testing.T) {
	// 0xE9 is é in ISO-8859-1.
	raw := []byte(`<html><head><meta http-equiv="Content-Type" content="text/html;charset=ISO-8859-1"/></head><body>
	 <span class="ocr_line" title="bbox 0 0 100 20">
	  <span class="ocrx_word" title="bbox 0 0 100 20; x_wconf 90">caf` + "\xe9" + `</span>
	 </span>
	</body></html>`)

	blocks, err := ParseHOCR(raw, 1)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "café" {
		t.Errorf("Expected decoded text %q, got %q", "café", blocks[0].Text)
	}
}

func TestParseHOCRNormalizesText(t *testing.T) {
	// e followed by combining acute accent should normalize to é.
	input := `<html><body>
	 <span class="ocr_line" title="bbox 0 0 100 20">
	  <span class="ocrx_word" title="bbox 0 0 100 20; x_wconf 90">cafe` + "́" + `</span>
	 </span>
	</body></html>`

	blocks, err := ParseHOCR([]byte(input), 1)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "café" || strings.ContainsRune(blocks[0].Text, '́') {
		t.Errorf("Expected NFC-normalized text, got %q", blocks[0].Text)
	}
}
