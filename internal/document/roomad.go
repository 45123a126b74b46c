package document

import (
	"image"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/money"
)

const (
	headerHeight    = 90.0
	maxCommonPhotos = 2
	maxNoteLines    = 5
	estPhotoSection = 160.0
	estCommonArea   = 120.0
)

type RoomAdInput struct {
	Room        *domain.Room
	Property    *domain.Property
	CommonRooms []*domain.Room
	// Deposit defaults to the room's monthly rent.
	Deposit          decimal.NullDecimal
	OwnerContact     string
	RoomImages       []image.Image
	CommonRoomImages map[uuid.UUID][]image.Image
}

// GenerateRoomAd renders a one or more page advertisement for a room.
func (g *Generator) GenerateRoomAd(in RoomAdInput) ([]byte, error) {
	c, err := g.renderRoomAd(in)
	if err != nil {
		return nil, err
	}
	return g.finish(c, "room ad")
}

func (g *Generator) renderRoomAd(in RoomAdInput) (*canvas, error) {
	if in.Room == nil || in.Property == nil {
		return nil, ErrIncompleteInput
	}
	room := in.Room
	c := g.newCanvas("Anuncio - "+room.Name, g.now())

	g.adHeader(c, room, in.Property)
	c.y = 110

	if amenities := DetectAmenities(room, in.CommonRooms); len(amenities) > 0 {
		c.chips(amenities)
		c.y += 15
	}

	deposit := room.MonthlyRent
	if in.Deposit.Valid {
		deposit = in.Deposit.Decimal
	}
	c.infoBoxes([]infoItem{
		{title: "Alquiler", value: money.FormatEUR(room.MonthlyRent) + "/mes"},
		{title: "Fianza", value: money.FormatEUR(deposit)},
		{title: "Disponibilidad", value: "Inmediata"},
	})

	c.sectionTitle("DETALLES")
	kind := "Zona común"
	if room.Type == domain.RoomTypePrivate {
		kind = "Habitación privada"
	}
	c.labelValue("Tipo:", kind)
	if room.SizeSqm.Valid {
		c.labelValue("Tamaño:", money.FormatDecimal(room.SizeSqm.Decimal)+" m²")
	}
	c.y += 10

	if notes := strings.TrimSpace(room.Notes); notes != "" {
		c.sectionTitle("DESCRIPCIÓN")
		c.paragraph(firstLines(notes, maxNoteLines), estLine, 15)
	}

	if roomImages := presentImages(in.RoomImages); len(roomImages) > 0 {
		c.ensureSpace(estPhotoSection)
		c.sectionTitle("FOTOS DE LA HABITACIÓN")
		c.photoGrid(roomImages, g.logger)
		c.y += 15
	}

	if len(in.CommonRooms) > 0 {
		c.ensureSpace(estCommonArea)
		c.sectionTitle("ZONAS COMUNES")
		for _, common := range in.CommonRooms {
			c.bullet(common.Name, 10, 4)
			photos := presentImages(in.CommonRoomImages[common.ID])
			if len(photos) == 0 {
				continue
			}
			c.ensureSpace(estCommonArea)
			c.photoGrid(photos[:min(len(photos), maxCommonPhotos)], g.logger)
			c.y += 5
		}
		c.y += 10
	}

	if contact := strings.TrimSpace(in.OwnerContact); contact != "" {
		c.contactBox(contact)
	}
	return c, nil
}

// adHeader paints the navy banner across the top of the first page. The
// banner overlaps the top margin and is not part of the block flow.
func (g *Generator) adHeader(c *canvas, room *domain.Room, property *domain.Property) {
	c.fillRect(Rect{X: 0, Y: 0, W: PageWidth, H: headerHeight}, navy, 0)

	c.fillRect(Rect{X: Margin, Y: 15, W: 110, H: 24}, emerald, 12)
	c.textAt(Margin+8, 19, "EN ALQUILER", style{size: 10, bold: true, color: white})

	const priceWidth = 120.0
	price := style{size: 11, bold: true, color: white}
	c.fillRect(Rect{X: PageWidth - Margin - priceWidth, Y: 15, W: priceWidth, H: 24}, gold, 12)
	c.textAt(PageWidth-Margin-priceWidth+8, 19, c.fit(money.FormatEURWhole(room.MonthlyRent)+"/mes", priceWidth-16, price), price)

	name := style{size: 22, bold: true, color: white}
	c.textAt(Margin, 50, c.fit(room.Name, ContentWidth, name), name)
	sub := style{size: 11, color: white.over(navy, 0.8)}
	c.textAt(Margin, 73, c.fit(property.Name+" · "+property.Address, ContentWidth, sub), sub)

	c.fillRect(Rect{X: Margin, Y: 92, W: ContentWidth, H: 3}, gold, 0)
}

func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	return strings.Join(lines[:min(len(lines), n)], "\n")
}

// presentImages drops nil entries left by photos that could not be loaded.
func presentImages(images []image.Image) []image.Image {
	out := make([]image.Image, 0, len(images))
	for _, img := range images {
		if img != nil {
			out = append(out, img)
		}
	}
	return out
}
