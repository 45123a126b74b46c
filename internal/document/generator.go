// Package document renders rental contracts and room advertisements as PDF.
package document

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// ErrIncompleteInput is returned when the tenant, room or property a document
// is built from is missing.
var ErrIncompleteInput = errors.New("document input is incomplete")

var errNoImage = errors.New("no image")

const placeholder = "___________"

// Profile holds the landlord data and defaults printed on every contract.
type Profile struct {
	LandlordTitle string   `yaml:"landlord_title"`
	LandlordName  string   `yaml:"landlord_name"`
	LandlordDNI   string   `yaml:"landlord_dni"`
	City          string   `yaml:"city"`
	AppName       string   `yaml:"app_name"`
	HouseRules    []string `yaml:"house_rules"`
}

// DefaultProfile leaves landlord identity blank so it prints as placeholders.
func DefaultProfile() Profile {
	return Profile{
		LandlordTitle: "D./Dña.",
		City:          "Guadalajara",
		AppName:       "Rental Manager",
		HouseRules:    append([]string(nil), defaultHouseRules...),
	}
}

var defaultHouseRules = []string{
	"Repartir y asignar las distintas tareas del hogar. De esta manera, evitarás en la medida de lo posible las discusiones. Dejarlo a la buena voluntad de cada uno no funciona.",
	"Dejar lo más limpio y presentable posible las habitaciones comunes, como el baño o la cocina.",
	"Establecer unos horarios de silencio ya que se puede molestar a algunos compañeros que tengan que trabajar. Horario mínimo a respetar de 23h a 8h, no usar la lavadora ni el lavavajillas ni ningún otro electrodoméstico que haga ruido a partir de las 23h.",
	"Se recomienda no mostrar actitudes demasiado impositivas o irritantes porque puedes acabar perdiendo compañeros o no encontrando piso.",
	"En el caso de que alguien fume, NUNCA se hará en el interior de la casa, se hará en el patio o terraza.",
	"Se recomienda la aportación de un fondo común para la compra de productos de uso común como lavavajillas, papel higiénico, detergente para la lavadora etc.",
	"No manipular ni el calentador ni la estufa de pellet, avisar en caso de que no funcione correctamente.",
	"Frigorífico: organizar el espacio en función de los compañeros que haya. Limpiar el interior al menos una vez al mes.",
	"No acumular basura dentro de la casa, imprescindible tirarla a diario.",
}

type Generator struct {
	now     func() time.Time
	profile Profile
	logger  *slog.Logger
}

type Option func(*Generator)

// WithClock fixes the time used for document dates and PDF metadata.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithProfile(p Profile) Option {
	return func(g *Generator) { g.profile = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New returns a Generator. A Generator holds no per-document state and may be
// used from several goroutines.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:     time.Now,
		profile: DefaultProfile(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) newCanvas(title string, now time.Time) *canvas {
	app := g.profile.AppName
	if app == "" {
		app = "Rental Manager"
	}
	footer := fmt.Sprintf("Generado con %s · %s", app, shortDate(now))
	return newCanvas(title, now, footer)
}

func (g *Generator) finish(c *canvas, kind string) ([]byte, error) {
	data, err := c.bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind, err)
	}
	g.logger.Debug("document generated", "kind", kind, "pages", c.page(), "bytes", len(data))
	return data, nil
}

func longDate(t time.Time) string {
	return monday.Format(t, "2 de January de 2006", monday.LocaleEsES)
}

func shortDate(t time.Time) string {
	return monday.Format(t, "2 Jan 2006", monday.LocaleEsES)
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return longDate(*t)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
