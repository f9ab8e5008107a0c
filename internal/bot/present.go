package bot

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vbonduro/marmitas/internal/service"
)

type category int

const (
	categoryMeat category = iota
	categoryChicken
	categoryVegan
	categoryOther
)

var categoryTitles = map[category]string{
	categoryMeat:    "Marmitas de Carne",
	categoryChicken: "Marmitas de Frango",
	categoryVegan:   "Marmitas Veganas",
	categoryOther:   "Outras Marmitas",
}

var categoryOrder = []category{categoryMeat, categoryChicken, categoryVegan, categoryOther}

// classify groups an item by its name. A quoted "carne" or "frango" marks a
// vegan imitation of that protein.
func classify(name string) category {
	switch {
	case strings.Contains(name, `"carne"`), strings.Contains(name, `"frango"`):
		return categoryVegan
	case strings.Contains(name, "carne"):
		return categoryMeat
	case strings.Contains(name, "frango"):
		return categoryChicken
	default:
		return categoryOther
	}
}

// markdownV2Special lists the characters Telegram requires escaped in
// MarkdownV2 text.
const markdownV2Special = "_*[]()~`>#+-=|{}.!\\"

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownV2Special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeInt(n int) string {
	return escape(strconv.Itoa(n))
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func itemName(name string) string {
	return escape(capitalize(name))
}

func FormatAddItem(out service.AddItemOutput) string {
	var b strings.Builder
	b.WriteString("Marmita registrada com sucesso\\!\n\n")
	fmt.Fprintf(&b, "*Nome:* %s\n", itemName(out.ItemName))
	fmt.Fprintf(&b, "*Estoque:* %s\n", escapeInt(out.InventoryQuantity))
	return b.String()
}

func FormatListItems(out service.ListItemsOutput) string {
	if len(out.Items) == 0 {
		return "Nenhuma marmita registrada\\."
	}

	groups := make(map[category][]service.ItemInventory)
	for _, item := range out.Items {
		c := classify(item.ItemName)
		groups[c] = append(groups[c], item)
	}

	var b strings.Builder
	b.WriteString("Lista de Marmitas:\n")
	for _, c := range categoryOrder {
		items := groups[c]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s:*\n", categoryTitles[c])
		for _, item := range items {
			fmt.Fprintf(&b, "*Nome:* %s\n", itemName(item.ItemName))
			fmt.Fprintf(&b, "*Estoque:* %s\n", escapeInt(item.InventoryQuantity))
		}
	}
	return b.String()
}

func FormatRemoveItem(out service.RemoveItemOutput) string {
	return "Marmita removida com sucesso\\!\n\n*Nome:* " + itemName(out.ItemName)
}

func FormatSetInventoryQuantities(out service.SetInventoryQuantitiesOutput) string {
	var b strings.Builder
	b.WriteString("Estoque registrado com sucesso\\!\n")
	for _, item := range out.Items {
		fmt.Fprintf(&b, "\n*Nome:* %s\n", itemName(item.ItemName))
		fmt.Fprintf(&b, "*Novo Estoque:* %s\n", escapeInt(item.InventoryQuantity))
	}
	return b.String()
}

func FormatCreateOrder(out service.CreateOrderOutput) string {
	var b strings.Builder
	b.WriteString("Pedido registrado com sucesso\\!\n\n")
	writeOrder(&b, out.OrderID, out.ClientName, out.OrderItems)
	return b.String()
}

func FormatCancelOrder(out service.CancelOrderOutput) string {
	var b strings.Builder
	b.WriteString("Pedido cancelado com sucesso\\!\n\n")
	writeOrder(&b, out.OrderID, out.ClientName, out.OrderItems)
	return b.String()
}

func writeOrder(b *strings.Builder, orderID string, clientName *string, lines []service.OrderLineOutput) {
	fmt.Fprintf(b, "*ID do Pedido:* %s\n", escape(orderID))
	if clientName != nil {
		fmt.Fprintf(b, "*Cliente:* %s\n", itemName(*clientName))
	}
	b.WriteString("*Marmitas:*\n\n")

	groups := make(map[category][]service.OrderLineOutput)
	for _, line := range lines {
		c := classify(line.ItemName)
		groups[c] = append(groups[c], line)
	}
	for _, c := range categoryOrder {
		if len(groups[c]) == 0 {
			continue
		}
		fmt.Fprintf(b, "*%s:*\n", categoryTitles[c])
		for _, line := range groups[c] {
			fmt.Fprintf(b, "  \\- *Nome:* %s\n", itemName(line.ItemName))
			fmt.Fprintf(b, "  \\- *Quantidade no Pedido:* %s\n", escapeInt(line.Quantity))
			fmt.Fprintf(b, "  \\- *Novo Estoque:* %s\n\n", escapeInt(line.InventoryQuantity))
		}
	}
}
