// Package ocr adapts an external OCR engine to the pipeline's block model.
//
// The engine is consumed as a black box: it receives a conditioned page
// raster and returns positioned text. Engines that emit hOCR (Tesseract
// among them) are parsed by [ParseHOCR] into [model.TextBlock] values with
// bounding boxes and confidences, which is the form the coverage evaluator
// and hierarchy clusterer consume.
//
// The gosseract-backed [Client] requires Tesseract and the "ocr" build tag;
// without the tag a stub returning [ErrOCRNotEnabled] is compiled instead.
package ocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/prepress/model"
)

// ParseHOCR converts hOCR output into text blocks for the given 1-indexed
// page. One block is produced per ocr_line element; the block confidence is
// the mean x_wconf of the line's words, scaled into [0,1].
func ParseHOCR(data []byte, page int) ([]model.TextBlock, error) {
	content := decodeCharset(data)

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var blocks []model.TextBlock
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_line") {
			if block, ok := lineToBlock(n, page); ok {
				blocks = append(blocks, block)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return blocks, nil
}

// lineToBlock builds a TextBlock from an ocr_line element. Lines without a
// parseable bbox or without any word text are dropped.
func lineToBlock(n *html.Node, page int) (model.TextBlock, bool) {
	bbox, ok := parseBBox(attr(n, "title"))
	if !ok {
		return model.TextBlock{}, false
	}

	var words []string
	var confSum float64
	var confCount int

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && hasClass(c, "ocrx_word") {
			text := strings.TrimSpace(nodeText(c))
			if text != "" {
				words = append(words, text)
			}
			if conf, ok := parseWordConf(attr(c, "title")); ok {
				confSum += conf
				confCount++
			}
			return
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			walk(gc)
		}
	}
	walk(n)

	if len(words) == 0 {
		return model.TextBlock{}, false
	}

	confidence := 0.0
	if confCount > 0 {
		confidence = confSum / float64(confCount) / 100
	}

	text := norm.NFC.String(strings.Join(words, " "))
	return model.NewTextBlock(text, bbox, page, model.SourceOCR, confidence), true
}

// parseBBox extracts "bbox x0 y0 x1 y1" from an hOCR title attribute.
func parseBBox(title string) (model.BBox, bool) {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}

		coords := make([]float64, 4)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return model.BBox{}, false
			}
			coords[i] = v
		}

		box := model.NewBBoxFromPoints(
			model.Point{X: coords[0], Y: coords[1]},
			model.Point{X: coords[2], Y: coords[3]},
		)
		if !box.IsValid() {
			return model.BBox{}, false
		}
		return box, true
	}
	return model.BBox{}, false
}

// parseWordConf extracts "x_wconf NN" from an hOCR title attribute.
func parseWordConf(title string) (float64, bool) {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) == 2 && fields[0] == "x_wconf" {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

// decodeCharset converts Latin-1 hOCR payloads to UTF-8. Engines emit
// UTF-8 by default but some configurations still declare ISO-8859-1.
func decodeCharset(data []byte) string {
	content := string(data)
	lower := strings.ToLower(content)
	if strings.Contains(lower, "charset=iso-8859-1") || strings.Contains(lower, "charset=latin-1") {
		if decoded, err := charmap.ISO8859_1.NewDecoder().String(content); err == nil {
			return decoded
		}
	}
	return content
}

// hasClass reports whether an element's class attribute contains the given
// class name.
func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates the text content of a node's subtree.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
