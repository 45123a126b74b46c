package document

import (
	"image"
	"log/slog"
)

// Block helpers draw at the cursor, advance it and return the new y.

// Estimated heights used for page-break decisions.
const (
	estLine      = 20.0
	estShort     = 40.0
	estMedium    = 60.0
	estLong      = 80.0
	estSection   = 30.0
	labelWidth   = 130.0
	gridSpacing  = 8.0
	gridBottom   = 60.0
	maxGridPhoto = 6
	chipHeight   = 22.0
	chipSpacing  = 8.0
)

func (c *canvas) title(text string, st style, after float64) float64 {
	c.ensureSpace(st.lineHeight() * 2)
	c.flow([]Span{bold(text)}, Margin, ContentWidth, st, "title")
	c.y += after
	return c.y
}

func (c *canvas) heading(text string, after float64) float64 {
	c.ensureSpace(estLine + estShort)
	c.flow([]Span{bold(text)}, Margin, ContentWidth, headStyle, "heading")
	c.y += after
	return c.y
}

func (c *canvas) mixed(spans []Span, estimate, after float64) float64 {
	c.ensureSpace(estimate)
	c.flow(spans, Margin, ContentWidth, bodyStyle, "paragraph")
	c.y += after
	return c.y
}

func (c *canvas) paragraph(text string, estimate, after float64) float64 {
	return c.mixed([]Span{regular(text)}, estimate, after)
}

func (c *canvas) styledParagraph(text string, st style, estimate, after float64) float64 {
	c.ensureSpace(estimate)
	c.flow([]Span{regular(text)}, Margin, ContentWidth, st, "paragraph")
	c.y += after
	return c.y
}

func (c *canvas) bullet(text string, indent, after float64) float64 {
	c.ensureSpace(estShort)
	c.flow([]Span{regular("• " + text)}, Margin+indent, ContentWidth-indent, bodyStyle, "bullet")
	c.y += after
	return c.y
}

// sectionTitle draws a navy heading with a short gold underline.
func (c *canvas) sectionTitle(text string) float64 {
	c.ensureSpace(estSection + estLine)
	c.flow([]Span{bold(text)}, Margin, ContentWidth, sectionHead, "section")
	c.y += 2
	c.line(Margin, c.y, Margin+60, c.y, 2, gold)
	c.y += 8
	return c.y
}

func (c *canvas) labelValue(label, value string) float64 {
	c.ensureSpace(estLine)
	top := c.y
	c.textAt(Margin, top, c.fit(label, labelWidth, headStyle), headStyle)
	c.place("label", Rect{X: Margin, Y: top, W: labelWidth, H: headStyle.lineHeight()})
	c.flow([]Span{regular(value)}, Margin+labelWidth, ContentWidth-labelWidth, bodyStyle, "value")
	c.y += 4
	return c.y
}

func (c *canvas) divider(col color, width float64) float64 {
	c.line(Margin, c.y, PageWidth-Margin, c.y, width, col)
	return c.y
}

type infoItem struct {
	title string
	value string
}

// infoBoxes draws equal-width boxes in one row, each with a small grey caption
// and a bold value.
func (c *canvas) infoBoxes(items []infoItem) float64 {
	const (
		height = 50.0
		gap    = 10.0
	)
	if len(items) == 0 {
		return c.y
	}
	c.ensureSpace(height)
	w := (ContentWidth - gap*float64(len(items)-1)) / float64(len(items))
	caption := style{size: 9, color: gray}
	value := style{size: 13, bold: true, color: navy}
	for i, it := range items {
		r := Rect{X: Margin + float64(i)*(w+gap), Y: c.y, W: w, H: height}
		c.fillRect(r, lightGray, 6)
		c.textAt(r.X+8, r.Y+8, c.fit(it.title, w-16, caption), caption)
		c.textAt(r.X+8, r.Y+24, c.fit(it.value, w-16, value), value)
		c.place("infobox", r)
	}
	c.y += height + 20
	return c.y
}

type infoCard struct {
	title string
	lines []string
}

// infoCards draws a row of cards holding a title and several short lines.
// All cards in the row share the height of the tallest.
func (c *canvas) infoCards(cards []infoCard) float64 {
	const gap = 12.0
	if len(cards) == 0 {
		return c.y
	}
	caption := style{size: 9, bold: true, color: navy}
	text := style{size: 10, color: charcoal}
	rows := 0
	for _, card := range cards {
		rows = max(rows, len(card.lines))
	}
	height := 8 + 14 + float64(rows)*(text.size*1.2+2) + 8
	c.ensureSpace(height)

	w := (ContentWidth - gap*float64(len(cards)-1)) / float64(len(cards))
	for i, card := range cards {
		r := Rect{X: Margin + float64(i)*(w+gap), Y: c.y, W: w, H: height}
		c.fillRect(r, lightGray, 6)
		c.textAt(r.X+10, r.Y+8, c.fit(card.title, w-20, caption), caption)
		ly := r.Y + 22
		for _, ln := range card.lines {
			c.textAt(r.X+10, ly, c.fit(ln, w-20, text), text)
			ly += text.size*1.2 + 2
		}
		c.place("card", r)
	}
	c.y += height + 14
	return c.y
}

// chips draws pill-shaped labels left to right, wrapping to a new row when
// the content width is exhausted.
func (c *canvas) chips(labels []string) float64 {
	if len(labels) == 0 {
		return c.y
	}
	st := style{size: 9, color: navy}
	fill := navy.over(white, 0.1)
	c.ensureSpace(chipHeight)

	x := Margin
	rowTop := c.y
	for _, label := range labels {
		label = c.fit(label, ContentWidth-16, st)
		w := c.width(label, st, false) + 16
		if x+w > Margin+ContentWidth {
			c.place("chips", Rect{X: Margin, Y: rowTop, W: ContentWidth, H: chipHeight})
			x = Margin
			c.y += chipHeight + 4
			c.ensureSpace(chipHeight)
			rowTop = c.y
		}
		c.fillRect(Rect{X: x, Y: c.y, W: w, H: chipHeight}, fill, 11)
		c.textAt(x+8, c.y+5, label, st)
		x += w + chipSpacing
	}
	c.place("chips", Rect{X: Margin, Y: rowTop, W: ContentWidth, H: chipHeight})
	c.y += chipHeight
	return c.y
}

// photoGrid lays out at most six images in two columns. Each row moves to a
// new page when it would come within gridBottom of the page end.
func (c *canvas) photoGrid(images []image.Image, logger *slog.Logger) float64 {
	const columns = 2
	w := (ContentWidth - gridSpacing) / columns
	h := w * 0.65
	images = images[:min(len(images), maxGridPhoto)]

	for i := 0; i < len(images); i += columns {
		if c.y+h > PageHeight-gridBottom {
			c.newPage()
		}
		for col := 0; col < columns && i+col < len(images); col++ {
			cell := Rect{X: Margin + float64(col)*(w+gridSpacing), Y: c.y, W: w, H: h}
			if err := c.image(images[i+col], cell, 6); err != nil {
				logger.Warn("skipping photo", "index", i+col, "error", err)
				continue
			}
			c.place("photo", cell)
		}
		c.y += h + gridSpacing
	}
	return c.y
}

// signatures draws two centered captions with a signing line under each.
func (c *canvas) signatures(left, right string) float64 {
	const gap = 40.0
	c.ensureSpace(estLong)
	st := style{size: 11, bold: true, color: navy}
	w := (ContentWidth - gap) / 2
	top := c.y

	c.textCentered(Margin, top, w, left, st)
	c.textCentered(Margin+w+gap, top, w, right, st)
	c.y += 35
	c.line(Margin+10, c.y, Margin+w-10, c.y, 0.5, charcoal)
	c.line(Margin+w+gap+10, c.y, PageWidth-Margin-10, c.y, 0.5, charcoal)
	c.y += 10
	c.place("signatures", Rect{X: Margin, Y: top, W: ContentWidth, H: c.y - top})
	return c.y
}

func (c *canvas) contactBox(contact string) float64 {
	const height = 40.0
	c.ensureSpace(height)
	r := Rect{X: Margin, Y: c.y, W: ContentWidth, H: height}
	st := style{size: 12, color: charcoal}
	c.fillRect(r, lightGray, 8)
	c.textAt(r.X+12, r.Y+12, c.fit("Contacto: "+contact, r.W-24, st), st)
	c.place("contact", r)
	c.y += height + 15
	return c.y
}
