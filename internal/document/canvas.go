package document

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
)

// Page geometry in PDF points (A4).
const (
	PageWidth    = 595.2
	PageHeight   = 841.8
	Margin       = 40.0
	ContentWidth = PageWidth - 2*Margin

	fontFamily = "Helvetica"
	lineGap    = 3.0
	producer   = "rentalmngr"
)

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Placement records where a content block landed. One block split across a
// page break produces one placement per page.
type Placement struct {
	Page int
	Kind string
	Rect
}

type color struct {
	r, g, b float64
}

var (
	navy      = color{0.11, 0.15, 0.27}
	gold      = color{0.84, 0.64, 0.26}
	emerald   = color{0.04, 0.54, 0.39}
	charcoal  = color{0.17, 0.17, 0.17}
	lightGray = color{0.95, 0.95, 0.95}
	gray      = color{0.5, 0.5, 0.5}
	white     = color{1, 1, 1}
)

// over returns c painted with the given opacity on top of bg.
func (c color) over(bg color, alpha float64) color {
	return color{
		r: c.r*alpha + bg.r*(1-alpha),
		g: c.g*alpha + bg.g*(1-alpha),
		b: c.b*alpha + bg.b*(1-alpha),
	}
}

func (c color) rgb() (int, int, int) {
	return int(math.Round(c.r * 255)), int(math.Round(c.g * 255)), int(math.Round(c.b * 255))
}

type style struct {
	size   float64
	bold   bool
	italic bool
	color  color
}

var (
	bodyStyle   = style{size: 11, color: charcoal}
	headStyle   = style{size: 11, bold: true, color: charcoal}
	sectionHead = style{size: 13, bold: true, color: navy}
)

func (s style) lineHeight() float64 { return s.size*1.2 + lineGap }

// Span is a run of text sharing one weight inside a flowing paragraph.
type Span struct {
	Text string
	Bold bool
}

func regular(s string) Span { return Span{Text: s} }
func bold(s string) Span    { return Span{Text: s, Bold: true} }

type canvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	y      float64
	trace  []Placement
	images int
}

func newCanvas(title string, created time.Time, footer string) *canvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(title, true)
	pdf.SetProducer(producer, true)

	c := &canvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if footer != "" {
		pdf.SetFooterFunc(func() { c.drawFooter(footer) })
	}
	c.newPage()
	return c
}

func (c *canvas) page() int { return c.pdf.PageNo() }

func (c *canvas) newPage() {
	c.pdf.AddPage()
	c.y = Margin
}

// ensureSpace starts a new page when a block of the given estimated height
// would cross the bottom margin.
func (c *canvas) ensureSpace(needed float64) bool {
	if c.y+needed > PageHeight-Margin {
		c.newPage()
		return true
	}
	return false
}

func (c *canvas) place(kind string, r Rect) {
	c.trace = append(c.trace, Placement{Page: c.page(), Kind: kind, Rect: r})
}

func (c *canvas) setFont(st style, bold bool) {
	s := ""
	if st.bold || bold {
		s += "B"
	}
	if st.italic {
		s += "I"
	}
	c.pdf.SetFont(fontFamily, s, st.size)
}

func (c *canvas) width(s string, st style, bold bool) float64 {
	c.setFont(st, bold)
	return c.pdf.GetStringWidth(c.tr(s))
}

// textAt draws a single unwrapped line whose top edge is at top.
func (c *canvas) textAt(x, top float64, s string, st style) {
	c.setFont(st, false)
	c.pdf.SetTextColor(st.color.rgb())
	c.pdf.Text(x, top+st.size*0.8, c.tr(s))
}

// textCentered draws s centered in [x, x+w].
func (c *canvas) textCentered(x, top, w float64, s string, st style) {
	s = c.fit(s, w, st)
	c.textAt(x+(w-c.width(s, st, false))/2, top, s, st)
}

// fit shortens s with an ellipsis until it is at most w wide.
func (c *canvas) fit(s string, w float64, st style) string {
	if c.width(s, st, false) <= w {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t := string(runes) + "..."
		if c.width(t, st, false) <= w {
			return t
		}
	}
	return ""
}

func (c *canvas) fillRect(r Rect, col color, radius float64) {
	c.pdf.SetFillColor(col.rgb())
	if radius > 0 {
		c.pdf.RoundedRect(r.X, r.Y, r.W, r.H, radius, "1234", "F")
		return
	}
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
}

func (c *canvas) line(x1, y1, x2, y2, width float64, col color) {
	c.pdf.SetDrawColor(col.rgb())
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

type fragment struct {
	text  string
	bold  bool
	width float64
}

type word struct {
	frags []fragment
	width float64
}

func (w *word) add(r rune, bold bool) {
	if n := len(w.frags); n > 0 && w.frags[n-1].bold == bold {
		w.frags[n-1].text += string(r)
		return
	}
	w.frags = append(w.frags, fragment{text: string(r), bold: bold})
}

func (c *canvas) measure(w word, st style) word {
	w.width = 0
	for i := range w.frags {
		w.frags[i].width = c.width(w.frags[i].text, st, w.frags[i].bold)
		w.width += w.frags[i].width
	}
	return w
}

// wrap breaks spans into lines no wider than maxW. Explicit newlines start a
// new line; a word wider than maxW is split between runes.
func (c *canvas) wrap(spans []Span, maxW float64, st style) [][]word {
	var (
		paras [][]word
		cur   []word
		w     word
	)
	flush := func() {
		if len(w.frags) > 0 {
			cur = append(cur, c.measure(w, st))
			w = word{}
		}
	}
	for _, sp := range spans {
		for _, r := range sp.Text {
			switch r {
			case ' ', '\t':
				flush()
			case '\n':
				flush()
				paras = append(paras, cur)
				cur = nil
			default:
				w.add(r, sp.Bold)
			}
		}
	}
	flush()
	paras = append(paras, cur)

	space := c.width(" ", st, false)
	var lines [][]word
	for _, para := range paras {
		var (
			ln []word
			lw float64
		)
		for _, wd := range para {
			for _, piece := range c.splitWord(wd, maxW, st) {
				add := piece.width
				if len(ln) > 0 {
					add += space
				}
				if len(ln) > 0 && lw+add > maxW {
					lines = append(lines, ln)
					ln, lw, add = nil, 0, piece.width
				}
				ln = append(ln, piece)
				lw += add
			}
		}
		lines = append(lines, ln)
	}
	return lines
}

func (c *canvas) splitWord(w word, maxW float64, st style) []word {
	if w.width <= maxW {
		return []word{w}
	}
	var (
		out []word
		cur word
	)
	for _, f := range w.frags {
		for _, r := range f.text {
			next := cur
			next.frags = append([]fragment(nil), cur.frags...)
			next.add(r, f.bold)
			next = c.measure(next, st)
			if next.width > maxW && len(cur.frags) > 0 {
				out = append(out, cur)
				cur = c.measure(word{frags: []fragment{{text: string(r), bold: f.bold}}}, st)
				continue
			}
			cur = next
		}
	}
	if len(cur.frags) > 0 {
		out = append(out, cur)
	}
	return out
}

// flow draws wrapped spans starting at the cursor and advances it. Lines that
// would cross the bottom margin move to a new page.
func (c *canvas) flow(spans []Span, x, maxW float64, st style, kind string) float64 {
	lines := c.wrap(spans, maxW, st)
	lh := st.lineHeight()
	space := c.width(" ", st, false)
	c.pdf.SetTextColor(st.color.rgb())

	top := c.y
	for _, ln := range lines {
		if c.y+lh > PageHeight-Margin {
			if c.y > top {
				c.place(kind, Rect{X: x, Y: top, W: maxW, H: c.y - top})
			}
			c.newPage()
			c.pdf.SetTextColor(st.color.rgb())
			top = c.y
		}
		cx := x
		for _, wd := range ln {
			for _, f := range wd.frags {
				c.setFont(st, f.bold)
				c.pdf.Text(cx, c.y+st.size*0.8, c.tr(f.text))
				cx += f.width
			}
			cx += space
		}
		c.y += lh
	}
	c.place(kind, Rect{X: x, Y: top, W: maxW, H: c.y - top})
	return c.y
}

// image draws img aspect-filled into cell, clipped to a rounded rectangle
// with a thin border.
func (c *canvas) image(img image.Image, cell Rect, radius float64) error {
	if img == nil {
		return errNoImage
	}
	data, err := fillJPEG(img, cell)
	if err != nil {
		return err
	}
	c.images++
	name := fmt.Sprintf("photo-%d", c.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

	c.pdf.ClipRoundedRect(cell.X, cell.Y, cell.W, cell.H, radius, false)
	c.pdf.ImageOptions(name, cell.X, cell.Y, cell.W, cell.H, false, opts, 0, "")
	c.pdf.ClipEnd()

	c.pdf.SetDrawColor(color{0.667, 0.667, 0.667}.over(white, 0.3).rgb())
	c.pdf.SetLineWidth(0.5)
	c.pdf.RoundedRect(cell.X, cell.Y, cell.W, cell.H, radius, "1234", "D")
	return nil
}

func (c *canvas) drawFooter(text string) {
	st := style{size: 8, italic: true, color: gray}
	c.line(Margin, PageHeight-40, PageWidth-Margin, PageHeight-40, 0.5, color{0.667, 0.667, 0.667})
	c.textCentered(Margin, PageHeight-35, ContentWidth, text, st)
}

func (c *canvas) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
