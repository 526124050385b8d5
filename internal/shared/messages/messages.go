package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Messages holds push notification texts. {card}, {total} and {due} are
// replaced when a reminder is rendered.
type Messages struct {
	InvoiceClosed MessageText `json:"invoice_closed"`
	InvoiceDue    MessageText `json:"invoice_due"`
}

// Default is used for texts missing from the messages file.
var Default = Messages{
	InvoiceClosed: MessageText{
		Title: "Fatura fechada",
		Body:  "A fatura do {card} fechou em R$ {total}. Vencimento em {due}.",
	},
	InvoiceDue: MessageText{
		Title: "Fatura vencendo",
		Body:  "A fatura do {card} de R$ {total} vence em {due}.",
	},
}

// Load reads the notifications JSON file. A missing file yields Default;
// blank entries in the file fall back to their default text.
func Load(path string) (*Messages, error) {
	m := Default
	if path == "" {
		return &m, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}

	var loaded Messages
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}

	m.InvoiceClosed = merge(loaded.InvoiceClosed, Default.InvoiceClosed)
	m.InvoiceDue = merge(loaded.InvoiceDue, Default.InvoiceDue)
	return &m, nil
}

func merge(text, fallback MessageText) MessageText {
	if text.Title == "" {
		text.Title = fallback.Title
	}
	if text.Body == "" {
		text.Body = fallback.Body
	}
	return text
}
