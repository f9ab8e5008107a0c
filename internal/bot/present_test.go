package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/marmitas/internal/service"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\-b\.c\!`, escape("a-b.c!"))
	assert.Equal(t, `\(x\) \_y\_ \*z\*`, escape("(x) _y_ *z*"))
	assert.Equal(t, "plain text", escape("plain text"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Marmita de carne", capitalize("marmita de CARNE"))
	assert.Equal(t, "Érica", capitalize("érica"))
	assert.Equal(t, "", capitalize(""))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, categoryMeat, classify("strogonoff de carne"))
	assert.Equal(t, categoryChicken, classify("marmita de frango"))
	assert.Equal(t, categoryVegan, classify(`strogonoff de "carne"`))
	assert.Equal(t, categoryVegan, classify(`marmita de "frango"`))
	assert.Equal(t, categoryOther, classify("sopa de legumes"))
}

func TestFormatAddItem(t *testing.T) {
	msg := FormatAddItem(service.AddItemOutput{ItemName: "marmita de carne", InventoryQuantity: 5})
	assert.Equal(t, "Marmita registrada com sucesso\\!\n\n*Nome:* Marmita de carne\n*Estoque:* 5\n", msg)
}

func TestFormatRemoveItem(t *testing.T) {
	msg := FormatRemoveItem(service.RemoveItemOutput{ItemName: "marmita de carne"})
	assert.Equal(t, "Marmita removida com sucesso\\!\n\n*Nome:* Marmita de carne", msg)
}

func TestFormatSetInventoryQuantities(t *testing.T) {
	msg := FormatSetInventoryQuantities(service.SetInventoryQuantitiesOutput{Items: []service.ItemInventory{
		{ItemName: "a", InventoryQuantity: 10},
		{ItemName: "b", InventoryQuantity: -1},
	}})
	assert.Equal(t, "Estoque registrado com sucesso\\!\n\n*Nome:* A\n*Novo Estoque:* 10\n\n*Nome:* B\n*Novo Estoque:* \\-1\n", msg)
}

func TestFormatListItems(t *testing.T) {
	msg := FormatListItems(service.ListItemsOutput{Items: []service.ItemInventory{
		{ItemName: "strogonoff de carne", InventoryQuantity: 2},
		{ItemName: "marmita de frango", InventoryQuantity: -1},
		{ItemName: `strogonoff de "carne"`, InventoryQuantity: 0},
		{ItemName: "sopa", InventoryQuantity: 1},
	}})

	want := "Lista de Marmitas:\n" +
		"\n*Marmitas de Carne:*\n*Nome:* Strogonoff de carne\n*Estoque:* 2\n" +
		"\n*Marmitas de Frango:*\n*Nome:* Marmita de frango\n*Estoque:* \\-1\n" +
		"\n*Marmitas Veganas:*\n*Nome:* Strogonoff de \"carne\"\n*Estoque:* 0\n" +
		"\n*Outras Marmitas:*\n*Nome:* Sopa\n*Estoque:* 1\n"
	assert.Equal(t, want, msg)
}

func TestFormatListItems_Empty(t *testing.T) {
	assert.Equal(t, "Nenhuma marmita registrada\\.", FormatListItems(service.ListItemsOutput{}))
}

func TestFormatCreateOrder_Goomer(t *testing.T) {
	client := "joana silva"
	id := int64(1234)
	msg := FormatCreateOrder(service.CreateOrderOutput{
		OrderID:         "ab-12",
		ClientName:      &client,
		ExternalOrderID: &id,
		OrderItems: []service.OrderLineOutput{
			{ItemName: "marmita de frango", Quantity: 2, InventoryQuantity: 3},
			{ItemName: "strogonoff de carne", Quantity: 1, InventoryQuantity: -1},
		},
	})

	want := "Pedido registrado com sucesso\\!\n\n" +
		"*ID do Pedido:* ab\\-12\n" +
		"*Cliente:* Joana silva\n" +
		"*Marmitas:*\n\n" +
		"*Marmitas de Carne:*\n" +
		"  \\- *Nome:* Strogonoff de carne\n" +
		"  \\- *Quantidade no Pedido:* 1\n" +
		"  \\- *Novo Estoque:* \\-1\n\n" +
		"*Marmitas de Frango:*\n" +
		"  \\- *Nome:* Marmita de frango\n" +
		"  \\- *Quantidade no Pedido:* 2\n" +
		"  \\- *Novo Estoque:* 3\n\n"
	assert.Equal(t, want, msg)
}

func TestFormatCancelOrder_Manual(t *testing.T) {
	msg := FormatCancelOrder(service.CancelOrderOutput{
		OrderID:     "x",
		IsCancelled: true,
		OrderItems:  []service.OrderLineOutput{{ItemName: "marmita de carne", Quantity: 1, InventoryQuantity: 5}},
	})

	assert.Contains(t, msg, "Pedido cancelado com sucesso\\!")
	assert.NotContains(t, msg, "*Cliente:*")
	assert.Contains(t, msg, "  \\- *Novo Estoque:* 5\n")
}
