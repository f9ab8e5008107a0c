package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vbonduro/marmitas/internal/domain"
	"github.com/vbonduro/marmitas/internal/service"
)

// goomerSectionDelimiter separates the blocks of a Goomer notification.
const goomerSectionDelimiter = "---------------------------------------"

// ErrUnrecognizedInput is returned when a chat message does not follow the
// format expected by the command it was sent to.
var ErrUnrecognizedInput = errors.New("unrecognized input")

var (
	quantityLine     = regexp.MustCompile(`^\s*(-?\d+)\s+(.+?)\s*$`)
	goomerOrderID    = regexp.MustCompile(`Pedido Goomer Delivery #(\d+)`)
	goomerItemLine   = regexp.MustCompile(`^\s*(?:\*\s*|-\s*)(\d+)\s*x\b`)
	goomerClientName = regexp.MustCompile(`\*(.*?)\*`)
	goomerCreatedAt  = regexp.MustCompile(`às (\d{1,2}:\d{2})_`)
)

func unrecognized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnrecognizedInput, fmt.Sprintf(format, args...))
}

// ParseAddItem reads "<quantity> <item name>".
func ParseAddItem(raw string) (service.AddItemInput, error) {
	qty, name, err := parseQuantityLine(raw)
	if err != nil {
		return service.AddItemInput{}, err
	}
	return service.AddItemInput{ItemName: name, InventoryQuantity: qty}, nil
}

// ParseRemoveItem reads a bare item name.
func ParseRemoveItem(raw string) (service.RemoveItemInput, error) {
	name := domain.NormalizeName(raw)
	if name == "" {
		return service.RemoveItemInput{}, unrecognized("empty item name")
	}
	return service.RemoveItemInput{ItemName: name}, nil
}

// ParseSetInventoryQuantities reads one "<quantity> <item name>" per line.
func ParseSetInventoryQuantities(raw string) (service.SetInventoryQuantitiesInput, error) {
	var in service.SetInventoryQuantitiesInput
	err := eachQuantityLine(raw, func(qty int, name string) {
		in.Items = append(in.Items, service.ItemInventory{ItemName: name, InventoryQuantity: qty})
	})
	if err != nil {
		return service.SetInventoryQuantitiesInput{}, err
	}
	return in, nil
}

// ParseManualOrder reads one "<quantity> <item name>" per line. Repeated
// names are merged into one line with the summed quantity.
func ParseManualOrder(raw string) (service.CreateManualOrderInput, error) {
	var lines lineSummer
	if err := eachQuantityLine(raw, lines.add); err != nil {
		return service.CreateManualOrderInput{}, err
	}
	return service.CreateManualOrderInput{Items: lines.items}, nil
}

// ParseCancelOrder reads a bare order ID.
func ParseCancelOrder(raw string) (service.CancelOrderInput, error) {
	id := strings.TrimSpace(raw)
	if id == "" || strings.ContainsAny(id, " \t\n") {
		return service.CancelOrderInput{}, unrecognized("invalid order id %q", id)
	}
	return service.CancelOrderInput{OrderID: id}, nil
}

// ParseGoomerOrder extracts an order from the notification text the Goomer
// platform sends. The text is split into sections by a line of 39 dashes:
// section 1 holds the order number, section 2 the item lines, section 3 the
// client name between asterisks. The order time is the "às HH:MM_" fragment.
func ParseGoomerOrder(raw string) (service.CreateGoomerOrderInput, error) {
	sections := strings.Split(raw, goomerSectionDelimiter)
	if len(sections) < 4 {
		return service.CreateGoomerOrderInput{}, unrecognized("expected 4 sections, got %d", len(sections))
	}

	m := goomerOrderID.FindStringSubmatch(sections[1])
	if m == nil {
		return service.CreateGoomerOrderInput{}, unrecognized("order number not found")
	}
	externalID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return service.CreateGoomerOrderInput{}, unrecognized("order number %q", m[1])
	}

	items, err := parseGoomerItems(sections[2])
	if err != nil {
		return service.CreateGoomerOrderInput{}, err
	}

	m = goomerClientName.FindStringSubmatch(sections[3])
	if m == nil || domain.NormalizeName(m[1]) == "" {
		return service.CreateGoomerOrderInput{}, unrecognized("client name not found")
	}
	clientName := domain.NormalizeName(m[1])

	m = goomerCreatedAt.FindStringSubmatch(raw)
	if m == nil {
		return service.CreateGoomerOrderInput{}, unrecognized("order time not found")
	}

	return service.CreateGoomerOrderInput{
		ClientName:        clientName,
		ExternalOrderID:   externalID,
		ExternalCreatedAt: m[1],
		Items:             items,
	}, nil
}

// parseGoomerItems keeps lines like "* 2x Marmita de carne". Lines with a
// "%" after the quantity are option lines (discounts, add-ons) and skipped.
func parseGoomerItems(section string) ([]service.OrderLineInput, error) {
	var lines lineSummer
	for _, line := range strings.Split(section, "\n") {
		loc := goomerItemLine.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		if strings.Contains(line[loc[1]:], "%") {
			continue
		}
		qty, err := strconv.Atoi(line[loc[2]:loc[3]])
		if err != nil {
			return nil, unrecognized("item quantity in %q", line)
		}
		_, name, _ := strings.Cut(line, "x")
		lines.add(qty, domain.NormalizeName(name))
	}
	if len(lines.items) == 0 {
		return nil, unrecognized("no order items found")
	}
	return lines.items, nil
}

func parseQuantityLine(line string) (int, string, error) {
	m := quantityLine.FindStringSubmatch(line)
	if m == nil {
		return 0, "", unrecognized("expected \"<quantity> <name>\", got %q", strings.TrimSpace(line))
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", unrecognized("quantity %q", m[1])
	}
	name := domain.NormalizeName(m[2])
	if name == "" {
		return 0, "", unrecognized("empty item name")
	}
	return qty, name, nil
}

// eachQuantityLine calls fn for every non-blank line of raw. The first line
// that does not parse aborts the whole message.
func eachQuantityLine(raw string, fn func(qty int, name string)) error {
	seen := false
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		qty, name, err := parseQuantityLine(line)
		if err != nil {
			return err
		}
		fn(qty, name)
		seen = true
	}
	if !seen {
		return unrecognized("no lines found")
	}
	return nil
}

// lineSummer accumulates order lines, merging repeated names while keeping
// the position of the first occurrence.
type lineSummer struct {
	items []service.OrderLineInput
	index map[string]int
}

func (s *lineSummer) add(qty int, name string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.items[i].Quantity += qty
		return
	}
	s.index[name] = len(s.items)
	s.items = append(s.items, service.OrderLineInput{ItemName: name, Quantity: qty})
}

