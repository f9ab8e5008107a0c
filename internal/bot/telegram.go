package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/vbonduro/marmitas/internal/logging"
)

// Callback data of the /start keyboard buttons.
const (
	cmdAddItem                = "add_item"
	cmdListItems              = "list_items"
	cmdRemoveItem             = "remove_item"
	cmdSetInventoryQuantities = "set_inventory_quantities"
	cmdCreateGoomerOrder      = "create_goomer_order"
	cmdReplayGoomerOrder      = "replay_goomer_order"
	cmdCreateManualOrder      = "create_manual_order"
	cmdCancelOrder            = "cancel_order"
)

type menuEntry struct {
	command string
	label   string
	// prompt is sent when the command needs a follow-up message. Commands
	// without a prompt run immediately.
	prompt string
}

var menu = []menuEntry{
	{cmdAddItem, "Registrar Nova Marmita", "Você escolheu registrar uma nova marmita.\nEnvie os dados da marmita no seguinte formato:\nestoque nome\n\nExemplo: 10 ARROZ INTEGRAL E STROGONOFF DE CARNE"},
	{cmdListItems, "Listar Marmitas", ""},
	{cmdRemoveItem, "Remover Marmita", "Você escolheu remover uma marmita. Envie o nome da marmita que deseja remover.\n\nExemplo: ARROZ INTEGRAL E STROGONOFF DE CARNE"},
	{cmdSetInventoryQuantities, "Registrar Estoque", "Você escolheu registrar o estoque.\nEnvie uma marmita por linha no seguinte formato:\nestoque nome\n\nExemplo: 10 ARROZ INTEGRAL E STROGONOFF DE CARNE"},
	{cmdCreateGoomerOrder, "Registrar Pedido (Goomer)", "Você escolheu registrar um pedido feito pelo Goomer. Envie os dados do pedido."},
	{cmdReplayGoomerOrder, "Reprocessar Pedido (Goomer)", "Você escolheu reprocessar um pedido do Goomer arquivado. Envie o código da notificação."},
	{cmdCreateManualOrder, "Registrar Pedido (Manual)", "Você escolheu registrar um pedido feito manualmente. Envie uma marmita por linha no seguinte formato:\nquantidade nome"},
	{cmdCancelOrder, "Cancelar Pedido", "Você escolheu cancelar um pedido. Envie o ID do pedido."},
}

const (
	chooseOptionText  = "Escolha uma opção:"
	unknownOptionText = "Opção desconhecida."
	startHintText     = "Envie /start para ver as opções."
)

// messenger is the part of tgbotapi.BotAPI the bot uses.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot drives the chat conversation: /start shows the command menu, picking
// a command stores it as pending for that chat, and the next text message in
// the chat is handed to the pending command.
type Bot struct {
	api        messenger
	controller *Controller
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[int64]string
}

func NewBot(api messenger, controller *Controller, logger *slog.Logger) *Bot {
	return &Bot{
		api:        api,
		controller: controller,
		logger:     logger,
		pending:    make(map[int64]string),
	}
}

// Run handles updates until ctx is done or the channel is closed. Updates are
// processed one at a time. Cancelling ctx stops the loop but does not abort
// the update being handled, so Run returns only once that update finished.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	b.logger.Info("telegram bot started")
	handleCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(handleCtx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.clearPending(chatID)
			b.sendMenu(ctx, chatID)
			return
		}
		b.sendPlain(ctx, chatID, startHintText)
		return
	}

	command, ok := b.takePending(chatID)
	if !ok {
		b.sendPlain(ctx, chatID, startHintText)
		return
	}

	b.logger.InfoContext(ctx, "running command", "command", command, "chat_id", chatID)
	b.sendMarkdown(ctx, chatID, b.dispatch(ctx, command, msg.Text))
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.WarnContext(ctx, "failed to answer callback", "error", err)
	}
	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	chatID := query.Message.Chat.ID

	entry, ok := lookupMenu(query.Data)
	if !ok {
		b.sendPlain(ctx, chatID, unknownOptionText)
		return
	}

	if entry.prompt == "" {
		b.sendMarkdown(ctx, chatID, b.dispatch(ctx, entry.command, ""))
		return
	}

	b.setPending(chatID, entry.command)
	msg := tgbotapi.NewMessage(chatID, entry.prompt)
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	b.send(ctx, msg)
}

func (b *Bot) dispatch(ctx context.Context, command, text string) string {
	switch command {
	case cmdAddItem:
		return b.controller.AddItem(ctx, text)
	case cmdListItems:
		return b.controller.ListItems(ctx)
	case cmdRemoveItem:
		return b.controller.RemoveItem(ctx, text)
	case cmdSetInventoryQuantities:
		return b.controller.SetInventoryQuantities(ctx, text)
	case cmdCreateGoomerOrder:
		return b.controller.CreateGoomerOrder(ctx, text)
	case cmdReplayGoomerOrder:
		return b.controller.ReplayGoomerOrder(ctx, text)
	case cmdCreateManualOrder:
		return b.controller.CreateManualOrder(ctx, text)
	case cmdCancelOrder:
		return b.controller.CancelOrder(ctx, text)
	default:
		return unexpectedErrorMessage
	}
}

func (b *Bot) sendMenu(ctx context.Context, chatID int64) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, entry := range menu {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(entry.label, entry.command)))
	}
	msg := tgbotapi.NewMessage(chatID, chooseOptionText)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(ctx, msg)
}

func (b *Bot) sendPlain(ctx context.Context, chatID int64, text string) {
	b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMarkdown(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	b.send(ctx, msg)
}

func (b *Bot) send(ctx context.Context, msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.ErrorContext(ctx, "failed to send telegram message", "chat_id", msg.ChatID, "error", err)
	}
}

func (b *Bot) setPending(chatID int64, command string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[chatID] = command
}

func (b *Bot) takePending(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	command, ok := b.pending[chatID]
	delete(b.pending, chatID)
	return command, ok
}

func (b *Bot) clearPending(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, chatID)
}

func lookupMenu(command string) (menuEntry, bool) {
	for _, entry := range menu {
		if entry.command == command {
			return entry, true
		}
	}
	return menuEntry{}, false
}
