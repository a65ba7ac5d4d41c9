package ocr

// PageSegMode controls how the engine segments the page before recognizing
// text. The values match Tesseract's page segmentation modes.
type PageSegMode int

const (
	PSMOSDOnly             PageSegMode = 0  // Orientation and script detection only
	PSMAutoOSD             PageSegMode = 1  // Automatic with OSD
	PSMAutoOnly            PageSegMode = 2  // Automatic, no OSD or OCR
	PSMAuto                PageSegMode = 3  // Fully automatic (default)
	PSMSingleColumn        PageSegMode = 4  // Single column of variable sizes
	PSMSingleBlockVertText PageSegMode = 5  // Single uniform block of vertical text
	PSMSingleBlock         PageSegMode = 6  // Single uniform block of text
	PSMSingleLine          PageSegMode = 7  // Single text line
	PSMSingleWord          PageSegMode = 8  // Single word
	PSMCircleWord          PageSegMode = 9  // Single word in a circle
	PSMSingleChar          PageSegMode = 10 // Single character
	PSMSparseText          PageSegMode = 11 // Find as much text as possible
	PSMSparseTextOSD       PageSegMode = 12 // Sparse text with OSD
	PSMRawLine             PageSegMode = 13 // Treat image as a single raw line
)

// Config controls engine behavior. The zero value selects English with
// fully automatic page segmentation.
type Config struct {
	// Language is the Tesseract language code. Multiple languages may be
	// joined with "+" (e.g. "eng+deu"). Empty defaults to "eng".
	Language string

	// PageSegMode selects the page segmentation strategy. The zero value
	// for document pages should usually stay PSMAuto.
	PageSegMode PageSegMode

	// Whitelist restricts recognition to the given characters when
	// non-empty.
	Whitelist string
}

// DefaultConfig returns the engine configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Language:    "eng",
		PageSegMode: PSMAuto,
	}
}

func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = "eng"
	}
	return c
}
