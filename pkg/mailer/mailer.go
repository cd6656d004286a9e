package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

const (
	defaultHost    = "smtp.gmail.com"
	defaultPort    = 587
	defaultTimeout = 30 * time.Second
)

// Config holds SMTP submission settings
type Config struct {
	Host     string
	Port     int
	From     string // also used as the login name
	Password string // app password
	Timeout  time.Duration
	// TLSConfig overrides the STARTTLS configuration
	TLSConfig *tls.Config
}

// Mailer sends plain-text messages over SMTP with STARTTLS.
// Each Send opens and closes its own connection.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	timeout  time.Duration
	tls      *tls.Config
	now      func() time.Time
}

func New(cfg Config) (*Mailer, error) {
	if cfg.From == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mailer: sender address and password are required")
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultPort
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	tlsCfg := cfg.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}

	return &Mailer{
		host:     host,
		port:     port,
		from:     cfg.From,
		password: cfg.Password,
		timeout:  timeout,
		tls:      tlsCfg,
		now:      time.Now,
	}, nil
}

// Send delivers one message to a single recipient. Every failure is
// returned as a *domain.MailError.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return mailErr(errors.New("mailer: recipient is required"))
	}

	msg, err := BuildMessage(m.from, to, subject, body, m.now())
	if err != nil {
		return mailErr(err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return mailErr(fmt.Errorf("mailer: dial %s: %w", addr, err))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClientStartTLS(conn, m.tls)
	if err != nil {
		_ = conn.Close()
		return mailErr(fmt.Errorf("mailer: starttls: %w", err))
	}
	defer func() { _ = c.Close() }()

	if err := c.Auth(sasl.NewPlainClient("", m.from, m.password)); err != nil {
		return mailErr(fmt.Errorf("mailer: auth: %w", err))
	}
	if err := c.SendMail(m.from, []string{to}, bytes.NewReader(msg)); err != nil {
		return mailErr(fmt.Errorf("mailer: send: %w", err))
	}
	if err := c.Quit(); err != nil {
		return mailErr(fmt.Errorf("mailer: quit: %w", err))
	}

	return nil
}

func mailErr(err error) error {
	return &domain.MailError{Cause: domain.WrapTimeout(err)}
}

// BuildMessage renders a single-part text/plain RFC 5322 message
func BuildMessage(from, to, subject, body string, date time.Time) ([]byte, error) {
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid sender %q: %w", from, err)
	}
	toAddr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid recipient %q: %w", to, err)
	}

	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{fromAddr})
	h.SetAddressList("To", []*mail.Address{toAddr})
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("mailer: create message: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("mailer: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("mailer: close message: %w", err)
	}

	return buf.Bytes(), nil
}
