package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/infra"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptSender delivers one e-mail with an optional attachment.
type ReceiptSender interface {
	SendReceipt(to, subject, body, filename string, attachment io.Reader) error
}

// ReceiptWorker renders a posted document as PDF and mails it to the
// document's counterparty. SMTP calls go through a circuit breaker.
type ReceiptWorker struct {
	ledger       service.LedgerService
	sender       ReceiptSender
	breaker      *infra.CircuitBreaker
	businessName string
}

func NewReceiptWorker(ledger service.LedgerService, sender ReceiptSender, breaker *infra.CircuitBreaker, businessName string) *ReceiptWorker {
	return &ReceiptWorker{ledger: ledger, sender: sender, breaker: breaker, businessName: businessName}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job service.ReceiptJob
	if err := json.Unmarshal(raw, &job); err != nil {
		// malformed payloads never succeed; drop instead of retrying
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}
	if job.To == "" {
		log.Warn().Str("document_id", job.DocumentID).Msg("receipt_worker: empty recipient, skipping")
		return nil
	}
	id, err := uuid.Parse(job.DocumentID)
	if err != nil {
		log.Error().Str("document_id", job.DocumentID).Msg("receipt_worker: invalid document id")
		return nil
	}

	doc, err := w.ledger.GetDocument(ctx, job.Kind, id)
	if err != nil {
		return fmt.Errorf("load %s %s: %w", job.Kind, job.DocumentID, err)
	}

	var buf bytes.Buffer
	if err := infra.RenderDocumentPDF(&buf, w.businessName, doc); err != nil {
		return err
	}

	title := "Purchase"
	if job.Kind == service.KindSale {
		title = "Sale"
	}
	subject := fmt.Sprintf("%s #%s from %s", title, doc.Header.ID, w.businessName)
	body := fmt.Sprintf("Hello %s,\n\nattached is the %s document dated %s for a total of %s.\n\n%s\n",
		job.PartyName, title, doc.Header.Date, doc.Header.TotalAmount.StringFixed(2), w.businessName)
	filename := fmt.Sprintf("%s-%s.pdf", job.Kind, doc.Header.ID)

	err = w.breaker.Execute(func() error {
		return w.sender.SendReceipt(job.To, subject, body, filename, bytes.NewReader(buf.Bytes()))
	})
	if err != nil {
		return fmt.Errorf("send receipt to %s: %w", job.To, err)
	}
	log.Info().Str("to", job.To).Str("document_id", job.DocumentID).Msg("receipt_worker: receipt sent")
	return nil
}
