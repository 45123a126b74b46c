package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/money"
)

type Template string

const (
	// TemplateLegal is the long-form literal contract text.
	TemplateLegal Template = "legal"
	// TemplateStructured uses numbered clauses and summary cards.
	TemplateStructured Template = "structured"
)

// ParseTemplate maps a user-supplied name to a Template. The empty string
// selects TemplateLegal.
func ParseTemplate(s string) (Template, error) {
	switch Template(strings.ToLower(strings.TrimSpace(s))) {
	case "", TemplateLegal:
		return TemplateLegal, nil
	case TemplateStructured:
		return TemplateStructured, nil
	}
	return "", fmt.Errorf("unknown contract template %q", s)
}

type ContractInput struct {
	Tenant   *domain.Tenant
	Room     *domain.Room
	Property *domain.Property
	// HouseRules replaces the profile's default rules when non-empty.
	HouseRules []string
	Template   Template
}

// GenerateContract renders the rental contract for one tenant and room.
func (g *Generator) GenerateContract(in ContractInput) ([]byte, error) {
	c, err := g.renderContract(in)
	if err != nil {
		return nil, err
	}
	return g.finish(c, "contract")
}

func (g *Generator) renderContract(in ContractInput) (*canvas, error) {
	if in.Tenant == nil || in.Room == nil || in.Property == nil {
		return nil, ErrIncompleteInput
	}
	now := g.now()
	terms := g.contractTerms(in, now)
	c := g.newCanvas("Contrato de arrendamiento - "+in.Tenant.FullName, now)
	switch in.Template {
	case TemplateStructured:
		g.structuredContract(c, terms)
	default:
		g.legalContract(c, terms)
	}
	return c, nil
}

// contractTerms resolves every value printed on a contract so that templates
// only deal with strings.
type contractTerms struct {
	date          string
	city          string
	landlordTitle string
	landlordName  string
	landlordDNI   string
	tenantName    string
	tenantDNI     string
	tenantEmail   string
	tenantPhone   string
	tenantAddress string
	propertyName  string
	address       string
	roomName      string
	roomSize      string
	start         string
	end           string
	rent          decimal.Decimal
	deposit       decimal.Decimal
	notes         string
	rules         []string
}

func (g *Generator) contractTerms(in ContractInput, now time.Time) contractTerms {
	t := in.Tenant
	address := t.CurrentAddress
	if strings.TrimSpace(address) == "" {
		address = in.Property.Address
	}
	deposit := decimal.Zero
	if t.Deposit.Valid {
		deposit = t.Deposit.Decimal
	}
	rules := in.HouseRules
	if len(rules) == 0 {
		rules = g.profile.HouseRules
	}
	size := ""
	if in.Room.SizeSqm.Valid {
		size = money.FormatDecimal(in.Room.SizeSqm.Decimal) + " m²"
	}
	title := g.profile.LandlordTitle
	if title == "" {
		title = "D./Dña."
	}

	return contractTerms{
		date:          longDate(now),
		city:          orPlaceholder(g.profile.City),
		landlordTitle: title,
		landlordName:  orPlaceholder(g.profile.LandlordName),
		landlordDNI:   orPlaceholder(g.profile.LandlordDNI),
		tenantName:    orPlaceholder(t.FullName),
		tenantDNI:     orPlaceholder(t.DNI),
		tenantEmail:   t.Email,
		tenantPhone:   t.Phone,
		tenantAddress: address,
		propertyName:  in.Property.Name,
		address:       in.Property.Address,
		roomName:      in.Room.Name,
		roomSize:      size,
		start:         optionalDate(t.ContractStart),
		end:           optionalDate(t.ContractEnd),
		rent:          in.Room.MonthlyRent,
		deposit:       deposit,
		notes:         strings.TrimSpace(t.ContractNotes),
		rules:         rules,
	}
}

func depositInWords(d decimal.Decimal) string {
	return strings.ToUpper(NumberToWords(int(d.Truncate(0).IntPart()))) + " EUROS"
}

func (g *Generator) legalContract(c *canvas, t contractTerms) {
	c.title("CONTRATO DE ARRENDAMIENTO DE HABITACIÓN EN PISO COMPARTIDO.", style{size: 16, bold: true, color: navy}, 12)

	c.mixed([]Span{regular("En " + t.city + " a "), bold(t.date)}, estLine, 4)
	c.paragraph("Estamos reunidos:", estLine, 8)

	c.heading("COMO PARTE ARRENDADORA:", 4)
	c.mixed([]Span{
		regular(t.landlordTitle + " "), bold(t.landlordName),
		regular(", mayor de edad y titular del DNI "), bold(t.landlordDNI),
		regular(". Titular de la vivienda compartida situada en "), bold(t.address), regular("."),
	}, estShort, 8)

	c.heading("COMO PARTE ARRENDATARIA:", 4)
	c.mixed([]Span{
		regular("D/Dña. "), bold(t.tenantName),
		regular(" mayor de edad con DNI/PASAPORTE "), bold(t.tenantDNI),
		regular(" y con domicilio en "), bold(t.tenantAddress),
	}, estShort, 12)

	c.title("AMBAS PARTES CONVIENEN EL ARRIENDO DE LA HABITACIÓN", style{size: 12, bold: true, color: charcoal}, 4)
	c.mixed([]Span{
		regular("Que se inicia el día "), bold(t.start),
		regular(" finalizando el día "), bold(t.end),
		regular(". El precio del arriendo es de "), bold(money.FormatEURWhole(t.rent)),
		regular(" mensuales, estando incluidos los gastos a excepción de calefacción y electricidad que deberán ser abonados de la siguiente forma, a dividir entre todos los ocupantes de la vivienda."),
	}, estMedium, 6)

	c.mixed([]Span{
		regular("EL DEPÓSITO que, como garantía deberá abonar el ARRENDATARIO es de "),
		bold(money.FormatEURWhole(t.deposit)), regular(" ("), bold(depositInWords(t.deposit)),
		regular("), importe que le será devuelto al finalizar el contrato, bien en metálico bien por transferencia bancaria."),
	}, estMedium, 6)

	c.paragraph("Este contrato no tiene validez como justificante de pago del arriendo, EL ARRENDADOR le deberá entregar al ARRENDATARIO un recibo como justificante de pago.", estShort, 6)
	c.paragraph("El objeto del ARRIENDO ES EXCLUSIVAMENTE la habitación que se indica, sin derecho a utilizar otros dormitorios de la casa. En cuanto al resto del mismo, EL ARRENDADOR acepta compartir el uso de la cocina, salón, y baño común para lo que se obliga a las normas de respeto y buena convivencia.", estMedium, 12)

	c.ensureSpace(estLong)
	c.heading("DERECHO DE ACCESO A LA VIVIENDA DEL ARRENDADOR.", 4)
	c.paragraph("Las partes acuerdan expresamente la renuncia del arrendatario a impedir que el arrendador pueda acceder a las zonas comunes de la vivienda. La violación de este derecho del arrendador por parte de cualquier persona que se encuentre en la vivienda será considerada causa de disolución del contrato y motivo de desahucio del arrendatario, siendo este responsable de los daños y perjuicios que el impedimento del acceso pueda ocasionar al arrendador, entre otros la pérdida de beneficios por no poder arrendar otras habitaciones.", estLong, 8)

	c.ensureSpace(estLong)
	c.heading("CLÁUSULA DE PREAVISO Y PERMANENCIA MENSUAL", 4)
	c.paragraph("En caso de que el ARRENDATARIO desee dar por finalizado el contrato antes de su fecha de vencimiento, deberá comunicarlo al ARRENDADOR con un mínimo de 15 días naturales de antelación.", estShort, 4)
	c.paragraph("No obstante, aunque se haya dado el preaviso dentro de ese plazo, el ARRENDATARIO estará obligado a abonar la mensualidad completa del mes en el que abandone la habitación, no correspondiendo, en ningún caso, el prorrateo de dicho importe.", estShort, 8)

	c.paragraph("EL ARRENDADOR podrá rescindir el contrato UNILATERALMENTE DE FORMA INMEDIATA si existen faltas en las normas del piso, o de buena convivencia entre compañeros o con el vecindario de la casa, o bien si estuviera en situación de falta de pago de la renta o suministros y/o calefacción, como también si existiera incumplimiento de cualquiera de los términos del contrato.", estLong, 4)
	c.paragraph("EL ARRENDADOR se reserva el derecho de rescindir el contrato por cualquier causa diferente a las anteriores siempre y cuando lo comunique al arrendatario con un mes de antelación.", estShort, 6)

	c.paragraph("Queda prohibida la introducción de terceras personas sin previo aviso al arrendador, la contratación de ningún tipo de servicios, así como la cesión PARCIAL o TOTAL de este contrato, sin previo permiso escrito de la propiedad.", estShort, 4)
	c.paragraph("El contrato no se podrá ceder ni subarrendar de forma parcial por el arrendatario sin previo consentimiento por escrito del arrendador.", estShort, 4)
	c.paragraph("No se permite fumar en el interior de la casa, ya que dispone de zonas, como el patio, en las que se puede fumar sin molestar al resto de inquilinos.", estShort, 4)
	c.paragraph("EL ARRENDATARIO está obligado a cumplir las normas de la casa, respetando el descanso de todos los que habitan la casa, especialmente desde las 23:00 hasta las 8:00.", estShort, 4)
	c.paragraph("EL ARRENDATARIO declara que el piso está en buen estado, obligándose a conservar todo con la mayor diligencia y a abonar los desperfectos que no sean debidos a un uso normal y correcto. Al finalizar el contrato, se comprobará que haya habido una correcta conservación de la casa y mobiliario. Siendo objeto de arriendo exclusivamente la habitación expresada, la propiedad conserva su derecho a entrar y salir de la casa por lo que el arrendatario se obliga a no cambiar la cerradura de la puerta. Por pérdida de llaves se abonará su importe.", estMedium, 4)
	c.paragraph("Queda terminantemente PROHIBIDA cualquier obra o alteración en el piso, sin previo permiso por escrito de la propiedad, así como la entrada de animales en el piso.", estShort, 4)
	c.paragraph("EL ARRENDADOR no se hace responsable de pérdidas o hurtos en las habitaciones. A tal efecto todas las habitaciones tienen cerradura privada.", estShort, 4)
	c.paragraph("EL ARRENDADOR tampoco se hace responsable de los posibles daños que pudieran surgir en los dispositivos eléctricos ajenos enchufados en la red eléctrica del piso.", estShort, 4)
	c.paragraph("Y en prueba de conformidad con todo cuanto antecede, firman ambas partes en lugar y fecha indicados.", estShort, 20)

	c.signatures("EL ARRENDADOR", "EL ARRENDATARIO")

	// House rules always start on their own page.
	c.newPage()
	c.title("NORMAS DE RESPETO Y BUENA CONVIVENCIA", style{size: 14, bold: true, color: navy}, 12)
	for _, rule := range t.rules {
		c.bullet(rule, 5, 6)
	}

	if t.notes != "" {
		c.y += 10
		c.ensureSpace(estMedium)
		c.title("CONDICIONES PARTICULARES", style{size: 12, bold: true, color: navy}, 6)
		c.styledParagraph(t.notes, style{size: 11, italic: true, color: charcoal}, estLine, 10)
	}
}

func (g *Generator) structuredContract(c *canvas, t contractTerms) {
	c.title("CONTRATO DE ARRENDAMIENTO DE HABITACIÓN", style{size: 18, bold: true, color: navy}, 2)
	c.styledParagraph(t.propertyName+" · "+t.address, style{size: 11, color: gray}, estLine, 6)
	c.divider(gold, 2)
	c.y += 14

	tenantLines := []string{t.tenantName, "DNI: " + t.tenantDNI}
	if t.tenantEmail != "" {
		tenantLines = append(tenantLines, t.tenantEmail)
	}
	if t.tenantPhone != "" {
		tenantLines = append(tenantLines, t.tenantPhone)
	}
	c.infoCards([]infoCard{
		{title: "ARRENDADOR", lines: []string{t.landlordTitle + " " + t.landlordName, "DNI: " + t.landlordDNI}},
		{title: "ARRENDATARIO", lines: tenantLines},
	})

	roomLines := []string{t.roomName}
	if t.roomSize != "" {
		roomLines = append(roomLines, t.roomSize)
	}
	roomLines = append(roomLines, t.address)
	c.infoCards([]infoCard{
		{title: "HABITACIÓN", lines: roomLines},
		{title: "CONDICIONES", lines: []string{
			"Renta: " + money.FormatEUR(t.rent) + "/mes",
			"Fianza: " + money.FormatEUR(t.deposit),
			"Inicio: " + t.start,
			"Fin: " + t.end,
		}},
	})

	clauses := []struct {
		title string
		body  []Span
	}{
		{"OBJETO", []Span{
			regular("Se arrienda exclusivamente la habitación "), bold(t.roomName),
			regular(" de la vivienda situada en "), bold(t.address),
			regular(", con uso compartido de cocina, salón y baño comunes."),
		}},
		{"DURACIÓN", []Span{
			regular("El contrato comienza el "), bold(t.start), regular(" y finaliza el "), bold(t.end),
			regular(". El ARRENDATARIO podrá darlo por finalizado con un preaviso mínimo de 15 días naturales, abonando la mensualidad completa del mes en que deje la habitación."),
		}},
		{"RENTA", []Span{
			regular("La renta mensual es de "), bold(money.FormatEUR(t.rent)),
			regular(", pagadera dentro de los cinco primeros días de cada mes. Incluye los gastos salvo calefacción y electricidad, que se dividen entre los ocupantes."),
		}},
		{"FIANZA", []Span{
			regular("El ARRENDATARIO entrega "), bold(money.FormatEUR(t.deposit)),
			regular(" ("), bold(depositInWords(t.deposit)),
			regular(") en concepto de fianza, que se devolverá al finalizar el contrato una vez comprobado el estado de la habitación."),
		}},
		{"OBLIGACIONES", []Span{
			regular("El ARRENDATARIO conservará la habitación y las zonas comunes con la debida diligencia, respetará el descanso entre las 23:00 y las 8:00 y no podrá ceder ni subarrendar la habitación sin consentimiento escrito."),
		}},
		{"RESOLUCIÓN", []Span{
			regular("El incumplimiento de cualquiera de las cláusulas o de las normas de convivencia facultará al ARRENDADOR a resolver el contrato de forma inmediata."),
		}},
	}

	n := 0
	for _, cl := range clauses {
		n++
		c.sectionTitle(fmt.Sprintf("%d. %s", n, cl.title))
		c.mixed(cl.body, estShort, 10)
	}

	if len(t.rules) > 0 {
		n++
		c.sectionTitle(fmt.Sprintf("%d. NORMAS DE CONVIVENCIA", n))
		for _, rule := range t.rules {
			c.bullet(rule, 10, 4)
		}
		c.y += 6
	}
	if t.notes != "" {
		n++
		c.sectionTitle(fmt.Sprintf("%d. CONDICIONES PARTICULARES", n))
		c.styledParagraph(t.notes, style{size: 11, italic: true, color: charcoal}, estLine, 10)
	}

	c.mixed([]Span{regular("En " + t.city + " a "), bold(t.date)}, estLine, 24)
	c.signatures("EL ARRENDADOR", "EL ARRENDATARIO")
}
