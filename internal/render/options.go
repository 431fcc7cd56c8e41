package render

// Option configures a Backend.
type Option func(*config)

type config struct {
	pageSize    string
	orientation string
	margins     [4]float64
	fontSize    float64
}

func defaultConfig() config {
	return config{
		pageSize:    "A4",
		orientation: "portrait",
		margins:     [4]float64{40, 40, 40, 40},
		fontSize:    10,
	}
}

// WithPageSize sets the page size used when a document does not name one,
// e.g. "A4" or "Letter".
func WithPageSize(size string) Option {
	return func(c *config) {
		c.pageSize = size
	}
}

// WithOrientation sets the default orientation, "portrait" or "landscape".
func WithOrientation(orientation string) Option {
	return func(c *config) {
		c.orientation = orientation
	}
}

// WithMargins sets the default page margins in points: left, top, right,
// bottom.
func WithMargins(left, top, right, bottom float64) Option {
	return func(c *config) {
		c.margins = [4]float64{left, top, right, bottom}
	}
}

// WithFontSize sets the font size used when the document's default style
// has none.
func WithFontSize(size float64) Option {
	return func(c *config) {
		if size > 0 {
			c.fontSize = size
		}
	}
}
