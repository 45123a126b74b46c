package document

import (
	"bytes"
	"image"
	imgcolor "image/color"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

var frozen = time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return New(WithClock(func() time.Time { return frozen }))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixtures() (*domain.Tenant, *domain.Room, *domain.Property) {
	property := &domain.Property{ID: uuid.New(), Name: "Piso Centro", Address: "Calle Mayor 1, Guadalajara"}
	room := &domain.Room{
		ID:          uuid.New(),
		PropertyID:  property.ID,
		Name:        "Habitación 1",
		Type:        domain.RoomTypePrivate,
		MonthlyRent: decimal.NewFromInt(450),
		SizeSqm:     decimal.NewNullDecimal(decimal.NewFromInt(12)),
		Notes:       "Luminosa\nExterior\nCon armario",
	}
	tenant := &domain.Tenant{
		ID:            uuid.New(),
		PropertyID:    property.ID,
		FullName:      "Lucía Pérez",
		ContractStart: date(2026, time.January, 1),
		ContractEnd:   date(2026, time.December, 31),
		Deposit:       decimal.NewNullDecimal(decimal.NewFromInt(500)),
		Active:        true,
	}
	return tenant, room, property
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, imgcolor.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	return img
}

func assertWithinMargins(t *testing.T, trace []Placement) {
	t.Helper()
	const eps = 1e-6
	for i, p := range trace {
		assert.GreaterOrEqual(t, p.X, Margin-eps, "placement %d (%s) x", i, p.Kind)
		assert.LessOrEqual(t, p.Right(), PageWidth-Margin+eps, "placement %d (%s) right", i, p.Kind)
		assert.GreaterOrEqual(t, p.Y, Margin-eps, "placement %d (%s) y", i, p.Kind)
		assert.LessOrEqual(t, p.Bottom(), PageHeight-Margin+eps, "placement %d (%s) bottom", i, p.Kind)
	}
}

func TestGenerateContractLegal(t *testing.T) {
	tenant, room, property := fixtures()
	g := newTestGenerator()

	data, err := g.GenerateContract(ContractInput{Tenant: tenant, Room: room, Property: property})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGenerateContractIsDeterministic(t *testing.T) {
	tenant, room, property := fixtures()
	tenant.ContractNotes = "Incluye plaza de garaje."

	for _, tmpl := range []Template{TemplateLegal, TemplateStructured} {
		t.Run(string(tmpl), func(t *testing.T) {
			in := ContractInput{Tenant: tenant, Room: room, Property: property, Template: tmpl}
			first, err := newTestGenerator().GenerateContract(in)
			require.NoError(t, err)
			second, err := newTestGenerator().GenerateContract(in)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestGenerateContractIncompleteInput(t *testing.T) {
	tenant, room, property := fixtures()
	g := newTestGenerator()

	_, err := g.GenerateContract(ContractInput{Room: room, Property: property})
	assert.ErrorIs(t, err, ErrIncompleteInput)
	_, err = g.GenerateContract(ContractInput{Tenant: tenant, Property: property})
	assert.ErrorIs(t, err, ErrIncompleteInput)
	_, err = g.GenerateContract(ContractInput{Tenant: tenant, Room: room})
	assert.ErrorIs(t, err, ErrIncompleteInput)
}

func TestLegalContractLayout(t *testing.T) {
	tenant, room, property := fixtures()
	tenant.ContractNotes = strings.Repeat("Condición especial acordada entre las partes. ", 40)

	c, err := newTestGenerator().renderContract(ContractInput{Tenant: tenant, Room: room, Property: property})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, c.page(), 2, "house rules start on their own page")
	assertWithinMargins(t, c.trace)
}

func TestStructuredContractLayout(t *testing.T) {
	tenant, room, property := fixtures()
	tenant.Email = "lucia@example.com"
	tenant.Phone = "600 000 000"
	rules := make([]string, 30)
	for i := range rules {
		rules[i] = "Mantener limpias las zonas comunes después de cada uso y respetar los turnos acordados."
	}

	c, err := newTestGenerator().renderContract(ContractInput{
		Tenant: tenant, Room: room, Property: property,
		HouseRules: rules, Template: TemplateStructured,
	})
	require.NoError(t, err)

	assert.Greater(t, c.page(), 1)
	cards := 0
	for _, p := range c.trace {
		if p.Kind == "card" {
			cards++
		}
	}
	assert.Equal(t, 4, cards)
	assertWithinMargins(t, c.trace)
}

func TestFlowBreaksBetweenLines(t *testing.T) {
	c := newTestGenerator().newCanvas("test", frozen)
	c.y = PageHeight - Margin - 3*bodyStyle.lineHeight() - 0.5
	c.flow([]Span{regular(strings.Repeat("palabra ", 400))}, Margin, ContentWidth, bodyStyle, "paragraph")

	require.Greater(t, len(c.trace), 1)
	assert.Equal(t, 1, c.trace[0].Page)
	assert.InDelta(t, 3*bodyStyle.lineHeight(), c.trace[0].H, 1e-6)
	assert.Equal(t, 2, c.trace[1].Page)
	assert.InDelta(t, Margin, c.trace[1].Y, 1e-6)
	assertWithinMargins(t, c.trace)
}

func TestContractTerms(t *testing.T) {
	tenant, room, property := fixtures()
	g := New(WithClock(func() time.Time { return frozen }), WithProfile(Profile{City: "Madrid"}))

	terms := g.contractTerms(ContractInput{Tenant: tenant, Room: room, Property: property}, frozen)
	assert.Equal(t, "15 de octubre de 2026", terms.date)
	assert.Equal(t, "Madrid", terms.city)
	assert.Equal(t, placeholder, terms.tenantDNI)
	assert.Equal(t, placeholder, terms.landlordName)
	assert.Equal(t, property.Address, terms.tenantAddress, "falls back to the property address")
	assert.Equal(t, "1 de enero de 2026", terms.start)
	assert.Equal(t, "QUINIENTOS EUROS", depositInWords(terms.deposit))
	assert.Empty(t, terms.rules, "profile without rules")

	tenant.ContractEnd = nil
	tenant.Deposit = decimal.NullDecimal{}
	tenant.CurrentAddress = "Calle Luna 3"
	terms = g.contractTerms(ContractInput{Tenant: tenant, Room: room, Property: property, HouseRules: []string{"No fumar"}}, frozen)
	assert.Empty(t, terms.end)
	assert.True(t, terms.deposit.IsZero())
	assert.Equal(t, "Calle Luna 3", terms.tenantAddress)
	assert.Equal(t, []string{"No fumar"}, terms.rules)
}

func TestDefaultProfileRules(t *testing.T) {
	tenant, room, property := fixtures()
	g := newTestGenerator()
	terms := g.contractTerms(ContractInput{Tenant: tenant, Room: room, Property: property}, frozen)
	assert.Len(t, terms.rules, len(defaultHouseRules))
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, TemplateLegal, tmpl)

	tmpl, err = ParseTemplate(" Structured ")
	require.NoError(t, err)
	assert.Equal(t, TemplateStructured, tmpl)

	_, err = ParseTemplate("short")
	assert.Error(t, err)
}

func TestGenerateRoomAd(t *testing.T) {
	_, room, property := fixtures()
	kitchen := &domain.Room{ID: uuid.New(), Name: "Cocina", Type: domain.RoomTypeCommon}
	terrace := &domain.Room{ID: uuid.New(), Name: "Terraza", Type: domain.RoomTypeCommon}

	images := make([]image.Image, 8)
	for i := range images {
		images[i] = solidImage(64, 48)
	}
	in := RoomAdInput{
		Room:         room,
		Property:     property,
		CommonRooms:  []*domain.Room{kitchen, terrace},
		OwnerContact: "600 123 456",
		RoomImages:   images,
		CommonRoomImages: map[uuid.UUID][]image.Image{
			kitchen.ID: {solidImage(30, 60), solidImage(60, 30), solidImage(40, 40)},
		},
	}

	c, err := newTestGenerator().renderRoomAd(in)
	require.NoError(t, err)

	kinds := map[string]int{}
	for _, p := range c.trace {
		kinds[p.Kind]++
	}
	assert.Equal(t, 6+2, kinds["photo"], "six room photos and two common room photos")
	assert.Equal(t, 3, kinds["infobox"])
	assert.Equal(t, 1, kinds["contact"])
	assert.Equal(t, 1, kinds["chips"])
	assert.Greater(t, c.page(), 1)
	assertWithinMargins(t, c.trace)

	first, err := newTestGenerator().GenerateRoomAd(in)
	require.NoError(t, err)
	second, err := newTestGenerator().GenerateRoomAd(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateRoomAdSkipsMissingImages(t *testing.T) {
	_, room, property := fixtures()
	kitchen := &domain.Room{ID: uuid.New(), Name: "Cocina", Type: domain.RoomTypeCommon}
	in := RoomAdInput{
		Room:        room,
		Property:    property,
		CommonRooms: []*domain.Room{kitchen},
		RoomImages:  []image.Image{nil, solidImage(10, 10)},
		CommonRoomImages: map[uuid.UUID][]image.Image{
			kitchen.ID: {nil, nil, solidImage(20, 10)},
		},
	}

	var c *canvas
	require.NotPanics(t, func() {
		var err error
		c, err = newTestGenerator().renderRoomAd(in)
		require.NoError(t, err)
	})
	photos := 0
	for _, p := range c.trace {
		if p.Kind == "photo" {
			photos++
		}
	}
	assert.Equal(t, 2, photos)

	pdf, err := newTestGenerator().GenerateRoomAd(RoomAdInput{Room: room, Property: property, RoomImages: []image.Image{nil}})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestCanvasImageRejectsNil(t *testing.T) {
	c := newTestGenerator().newCanvas("nil", frozen)
	err := c.image(nil, Rect{X: Margin, Y: Margin, W: 100, H: 65}, 6)
	assert.ErrorIs(t, err, errNoImage)
}

func TestGenerateRoomAdMinimal(t *testing.T) {
	_, room, property := fixtures()
	room.SizeSqm = decimal.NullDecimal{}
	room.Notes = ""

	c, err := newTestGenerator().renderRoomAd(RoomAdInput{Room: room, Property: property})
	require.NoError(t, err)
	assert.Equal(t, 1, c.page())
	for _, p := range c.trace {
		assert.NotEqual(t, "photo", p.Kind)
		assert.NotEqual(t, "chips", p.Kind)
		assert.NotEqual(t, "contact", p.Kind)
	}

	_, err = newTestGenerator().GenerateRoomAd(RoomAdInput{Property: property})
	assert.ErrorIs(t, err, ErrIncompleteInput)
}

func TestWrapKeepsLinesWithinWidth(t *testing.T) {
	c := newTestGenerator().newCanvas("wrap", frozen)
	spans := []Span{
		regular("Cuenta: "), bold("ES7620770024003102575766"), regular(strings.Repeat("x", 300)),
	}
	lines := c.wrap(spans, 200, bodyStyle)
	space := c.width(" ", bodyStyle, false)
	for _, ln := range lines {
		w := 0.0
		for i, wd := range ln {
			if i > 0 {
				w += space
			}
			w += wd.width
		}
		assert.LessOrEqual(t, w, 200.0+1e-6)
	}
	assert.Greater(t, len(lines), 3)
}
