package notify

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/beatfindr/leadscout/internal/config"
	"github.com/beatfindr/leadscout/internal/model"
)

// Notifier sends the run summary. Send is a no-op when the batch is empty;
// a transport failure propagates, since silently losing a lead notification
// is a correctness problem the operator must see.
type Notifier interface {
	Send(ctx context.Context, leads []model.Lead, counts Summary) error
}

// EmailNotifier sends the summary over SMTP with implicit TLS.
type EmailNotifier struct {
	cfg config.NotifyConfig
}

// NewEmail creates an EmailNotifier from the validated notify config.
func NewEmail(cfg config.NotifyConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Send(ctx context.Context, leads []model.Lead, counts Summary) error {
	if len(leads) == 0 {
		zap.L().Info("notify: no new leads, skipping email")
		return nil
	}

	csvBytes, err := BuildCSV(leads)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return eris.Wrap(err, "notify: set from address")
	}
	if err := msg.To(n.cfg.To); err != nil {
		return eris.Wrap(err, "notify: set to address")
	}
	msg.Subject(Subject(counts, time.Now().UTC()))
	msg.SetBodyString(mail.TypeTextPlain, Body(counts, n.cfg.PromoURL))
	if err := msg.AttachReader(AttachmentName, bytes.NewReader(csvBytes)); err != nil {
		return eris.Wrap(err, "notify: attach csv")
	}

	client, err := mail.NewClient(n.cfg.SMTPHost,
		mail.WithPort(n.cfg.SMTPPort),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
	)
	if err != nil {
		return eris.Wrap(err, "notify: create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return eris.Wrapf(err, "notify: send summary to %s", n.cfg.To)
	}

	zap.L().Info("notify: emailed lead summary",
		zap.String("to", n.cfg.To),
		zap.Int("leads", counts.Total()),
	)
	return nil
}

// Subject renders the email subject line.
func Subject(counts Summary, now time.Time) string {
	return fmt.Sprintf("BeatFindr Leads (%d new) – %s",
		counts.Total(), now.UTC().Format("2006-01-02 15:04 UTC"))
}

// Body renders the plaintext email body.
func Body(counts Summary, promoURL string) string {
	lines := []string{
		"New buyer/sync leads for trap / hip-hop / cinematic instrumentals.",
		"",
		"Totals this run: " + totalsLine(counts),
		"",
		"CSV attached with all new items.",
	}
	if promoURL != "" {
		lines = append(lines, fmt.Sprintf("Your sound (quick ref): %s", promoURL))
	}
	lines = append(lines,
		"",
		"Tip: reply fast with 2-3 best links + a simple pricing grid (lease/exclusive) or a custom quote.",
		"— BeatFindr Bot",
	)
	return strings.Join(lines, "\n")
}

func totalsLine(counts Summary) string {
	if counts.Total() == 0 {
		return "0"
	}

	sources := make([]string, 0, len(counts))
	for src := range counts {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		if counts[src] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", src, counts[src]))
		}
	}
	return strings.Join(parts, ", ")
}
