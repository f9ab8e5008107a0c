package extract

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/marmitas/internal/service"
)

// Prompt is the shared instruction sent to every model backend. The
// notification text is appended after it.
const Prompt = `The text below is a restaurant order notification from Goomer.
Extract the order and answer with exactly these lines and nothing else:
pedido: <order number>
horario: <order time as HH:MM>
cliente: <customer name>
item: <quantity> | <item name>
Write one "item:" line per ordered item. Skip discounts, add-ons, fees and
any line that is not a dish.

Notification:
`

// ErrIncompleteResponse is returned when the model answer lacks a field the
// order needs.
var ErrIncompleteResponse = errors.New("incomplete model response")

// Model sends a prompt to a language model and returns its text answer.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type GoomerExtractor struct {
	model   Model
	timeout time.Duration
}

// NewGoomerExtractor builds an extractor whose model calls are abandoned
// after timeout.
func NewGoomerExtractor(model Model, timeout time.Duration) *GoomerExtractor {
	return &GoomerExtractor{model: model, timeout: timeout}
}

func (e *GoomerExtractor) ExtractGoomerOrder(ctx context.Context, raw string) (service.CreateGoomerOrderInput, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answer, err := e.model.Complete(ctx, Prompt+raw)
	if err != nil {
		return service.CreateGoomerOrderInput{}, fmt.Errorf("model completion failed: %w", err)
	}
	return ParseResponse(answer)
}

// ParseResponse reads the "key: value" lines described in Prompt. Unknown
// lines are ignored so a chatty preamble does not break extraction.
func ParseResponse(raw string) (service.CreateGoomerOrderInput, error) {
	var in service.CreateGoomerOrderInput
	var haveID bool

	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "pedido":
			id, err := strconv.ParseInt(strings.TrimPrefix(value, "#"), 10, 64)
			if err != nil {
				return service.CreateGoomerOrderInput{}, fmt.Errorf("%w: order number %q", ErrIncompleteResponse, value)
			}
			in.ExternalOrderID = id
			haveID = true
		case "horario":
			in.ExternalCreatedAt = value
		case "cliente":
			in.ClientName = value
		case "item":
			item, ok := parseItem(value)
			if ok {
				in.Items = append(in.Items, item)
			}
		}
	}

	switch {
	case !haveID:
		return service.CreateGoomerOrderInput{}, fmt.Errorf("%w: missing order number", ErrIncompleteResponse)
	case in.ExternalCreatedAt == "":
		return service.CreateGoomerOrderInput{}, fmt.Errorf("%w: missing order time", ErrIncompleteResponse)
	case in.ClientName == "":
		return service.CreateGoomerOrderInput{}, fmt.Errorf("%w: missing client name", ErrIncompleteResponse)
	case len(in.Items) == 0:
		return service.CreateGoomerOrderInput{}, fmt.Errorf("%w: no items", ErrIncompleteResponse)
	}
	return in, nil
}

// parseItem reads "<quantity> | <name>".
func parseItem(value string) (service.OrderLineInput, bool) {
	qty, name, ok := strings.Cut(value, "|")
	if !ok {
		return service.OrderLineInput{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || n <= 0 {
		return service.OrderLineInput{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return service.OrderLineInput{}, false
	}
	return service.OrderLineInput{ItemName: name, Quantity: n}, true
}
