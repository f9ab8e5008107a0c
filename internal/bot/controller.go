package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vbonduro/marmitas/internal/archive"
	"github.com/vbonduro/marmitas/internal/domain"
	"github.com/vbonduro/marmitas/internal/service"
)

const unexpectedErrorMessage = "Ocorreu um erro inesperado\\."

// maxNotificationBytes bounds how much of an archived notification is read.
const maxNotificationBytes = 64 << 10

var errArchiveDisabled = errors.New("notification archive disabled")

// GoomerExtractor reads a Goomer notification that the template parser
// could not handle.
type GoomerExtractor interface {
	ExtractGoomerOrder(ctx context.Context, raw string) (service.CreateGoomerOrderInput, error)
}

// Controller turns a chat message into a use case call and the use case
// result into a MarkdownV2 reply. Every command returns a message; failures
// are reported to the user, never to the caller.
type Controller struct {
	uc        *service.UseCases
	extractor GoomerExtractor
	archive   archive.Archive
	logger    *slog.Logger
}

// NewController builds a Controller. extractor and notifications may be nil.
func NewController(uc *service.UseCases, extractor GoomerExtractor, notifications archive.Archive, logger *slog.Logger) *Controller {
	return &Controller{uc: uc, extractor: extractor, archive: notifications, logger: logger}
}

func (c *Controller) AddItem(ctx context.Context, raw string) string {
	return c.run(ctx, "add_item", func() (string, error) {
		in, err := ParseAddItem(raw)
		if err != nil {
			return "", err
		}
		out, err := c.uc.AddItem.Execute(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatAddItem(out), nil
	})
}

func (c *Controller) ListItems(ctx context.Context) string {
	return c.run(ctx, "list_items", func() (string, error) {
		out, err := c.uc.ListItems.Execute(ctx)
		if err != nil {
			return "", err
		}
		return FormatListItems(out), nil
	})
}

func (c *Controller) RemoveItem(ctx context.Context, raw string) string {
	return c.run(ctx, "remove_item", func() (string, error) {
		in, err := ParseRemoveItem(raw)
		if err != nil {
			return "", err
		}
		out, err := c.uc.RemoveItem.Execute(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatRemoveItem(out), nil
	})
}

func (c *Controller) SetInventoryQuantities(ctx context.Context, raw string) string {
	return c.run(ctx, "set_inventory_quantities", func() (string, error) {
		in, err := ParseSetInventoryQuantities(raw)
		if err != nil {
			return "", err
		}
		out, err := c.uc.SetInventoryQuantities.Execute(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatSetInventoryQuantities(out), nil
	})
}

// CreateGoomerOrder archives the notification first. When the order fails,
// the reply carries the archive key so the notification can be replayed.
func (c *Controller) CreateGoomerOrder(ctx context.Context, raw string) string {
	key := c.archiveNotification(ctx, raw)

	var failed bool
	msg := c.run(ctx, "create_goomer_order", func() (string, error) {
		out, err := c.createGoomerOrder(ctx, raw)
		failed = err != nil
		return out, err
	})
	if failed && key != "" {
		msg += fmt.Sprintf("\n\nNotificação arquivada: `%s`", key)
	}
	return msg
}

// ReplayGoomerOrder runs an archived Goomer notification through the order
// flow again, typically after the missing items were registered.
func (c *Controller) ReplayGoomerOrder(ctx context.Context, raw string) string {
	return c.run(ctx, "replay_goomer_order", func() (string, error) {
		if c.archive == nil {
			return "", errArchiveDisabled
		}
		key := strings.TrimSpace(raw)
		r, err := c.archive.Get(ctx, key)
		if err != nil {
			return "", err
		}
		defer func() {
			if err := r.Close(); err != nil {
				c.logger.WarnContext(ctx, "failed to close archived notification", "key", key, "error", err)
			}
		}()

		text, err := io.ReadAll(io.LimitReader(r, maxNotificationBytes))
		if err != nil {
			return "", fmt.Errorf("read archived notification %s: %w", key, err)
		}
		c.logger.InfoContext(ctx, "replaying goomer notification", "key", key)
		return c.createGoomerOrder(ctx, string(text))
	})
}

func (c *Controller) createGoomerOrder(ctx context.Context, raw string) (string, error) {
	in, err := c.parseGoomerOrder(ctx, raw)
	if err != nil {
		return "", err
	}
	out, err := c.uc.CreateGoomerOrder.Execute(ctx, in)
	if err != nil {
		return "", err
	}
	return FormatCreateOrder(out), nil
}

func (c *Controller) CreateManualOrder(ctx context.Context, raw string) string {
	return c.run(ctx, "create_manual_order", func() (string, error) {
		in, err := ParseManualOrder(raw)
		if err != nil {
			return "", err
		}
		out, err := c.uc.CreateManualOrder.Execute(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatCreateOrder(out), nil
	})
}

func (c *Controller) CancelOrder(ctx context.Context, raw string) string {
	return c.run(ctx, "cancel_order", func() (string, error) {
		in, err := ParseCancelOrder(raw)
		if err != nil {
			return "", err
		}
		out, err := c.uc.CancelOrder.Execute(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatCancelOrder(out), nil
	})
}

// archiveNotification stores the raw text before parsing and returns its key,
// or "" when nothing was archived. A failed write does not block the order.
func (c *Controller) archiveNotification(ctx context.Context, raw string) string {
	if c.archive == nil {
		return ""
	}
	key, err := c.archive.Save(ctx, "goomer", strings.NewReader(raw))
	if err != nil {
		c.logger.WarnContext(ctx, "failed to archive goomer notification", "error", err)
		return ""
	}
	c.logger.DebugContext(ctx, "goomer notification archived", "key", key)
	return key
}

func (c *Controller) parseGoomerOrder(ctx context.Context, raw string) (service.CreateGoomerOrderInput, error) {
	in, err := ParseGoomerOrder(raw)
	if err == nil || c.extractor == nil {
		return in, err
	}

	c.logger.InfoContext(ctx, "goomer template parse failed, using extractor", "error", err)
	in, extractErr := c.extractor.ExtractGoomerOrder(ctx, raw)
	if extractErr != nil {
		c.logger.WarnContext(ctx, "goomer extraction failed", "error", extractErr)
		return service.CreateGoomerOrderInput{}, err
	}

	// Extracted text is free-form, so it gets the same cleaning and merging
	// as the template path.
	var lines lineSummer
	for _, line := range in.Items {
		lines.add(line.Quantity, domain.NormalizeName(line.ItemName))
	}
	in.ClientName = domain.NormalizeName(in.ClientName)
	in.Items = lines.items
	if in.ClientName == "" || len(in.Items) == 0 {
		return service.CreateGoomerOrderInput{}, err
	}
	return in, nil
}

// run is the single error boundary of every command: known failures become
// a user message, anything else is logged and reported generically.
func (c *Controller) run(ctx context.Context, command string, fn func() (string, error)) string {
	msg, err := fn()
	if err == nil {
		return msg
	}

	if known, ok := errorMessage(err); ok {
		c.logger.InfoContext(ctx, "command rejected", "command", command, "error", err)
		return known
	}

	c.logger.ErrorContext(ctx, "command failed", "command", command, "error", err)
	return unexpectedErrorMessage
}

func errorMessage(err error) (string, bool) {
	var (
		itemExists      *domain.ItemAlreadyExistsError
		itemNotFound    *domain.ItemNotFoundByNameError
		itemsNotFound   *domain.ItemsNotFoundByNameError
		itemIDNotFound  *domain.ItemNotFoundByIDError
		orderNotFound   *domain.OrderNotFoundError
		orderCancelled  *domain.OrderAlreadyCancelledError
		clientNotFound  *domain.ClientNotFoundError
		invalidQuantity *domain.InvalidQuantityError
	)

	switch {
	case errors.As(err, &itemExists):
		return fmt.Sprintf("A marmita *%s* já está registrada\\.", itemName(itemExists.Name)), true
	case errors.As(err, &itemNotFound):
		return fmt.Sprintf("Marmita não encontrada: *%s*", itemName(itemNotFound.Name)), true
	case errors.As(err, &itemsNotFound):
		var b strings.Builder
		b.WriteString("Marmitas não encontradas:\n")
		for _, name := range itemsNotFound.Names {
			fmt.Fprintf(&b, "  \\- %s\n", itemName(name))
		}
		return b.String(), true
	case errors.As(err, &itemIDNotFound):
		return fmt.Sprintf("Uma marmita do pedido não existe mais \\(ID %s\\)\\.", escape(itemIDNotFound.ItemID)), true
	case errors.As(err, &orderNotFound):
		return fmt.Sprintf("Pedido não encontrado: %s", escape(orderNotFound.OrderID)), true
	case errors.As(err, &orderCancelled):
		return fmt.Sprintf("O pedido %s já foi cancelado\\.", escape(orderCancelled.OrderID)), true
	case errors.As(err, &clientNotFound):
		return fmt.Sprintf("Cliente não encontrado: %s", itemName(clientNotFound.Name)), true
	case errors.As(err, &invalidQuantity):
		return fmt.Sprintf("Quantidade inválida para *%s*: %s", itemName(invalidQuantity.ItemName), escapeInt(invalidQuantity.Quantity)), true
	case errors.Is(err, errArchiveDisabled):
		return "O arquivo de notificações está desativado\\.", true
	case errors.Is(err, archive.ErrNotFound), errors.Is(err, archive.ErrInvalidKey):
		return "Notificação arquivada não encontrada\\.", true
	case errors.Is(err, ErrUnrecognizedInput):
		return "Não entendi a mensagem\\. Confira o formato e tente novamente\\.", true
	}
	return "", false
}
