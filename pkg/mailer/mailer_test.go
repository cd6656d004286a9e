package mailer

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

func TestBuildMessage(t *testing.T) {
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err := BuildMessage("bot@example.com", "ana@example.com", "Recent Data Science job summary", "Hola, aquí está el resumen.", date)
	if err != nil {
		t.Fatalf("BuildMessage: %v", err)
	}

	r, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("CreateReader: %v", err)
	}

	subject, _ := r.Header.Subject()
	if subject != "Recent Data Science job summary" {
		t.Fatalf("subject = %q", subject)
	}
	to, _ := r.Header.AddressList("To")
	if len(to) != 1 || to[0].Address != "ana@example.com" {
		t.Fatalf("to = %v", to)
	}

	part, err := r.NextPart()
	if err != nil {
		t.Fatalf("NextPart: %v", err)
	}
	body, _ := io.ReadAll(part.Body)
	if string(body) != "Hola, aquí está el resumen." {
		t.Fatalf("body = %q", body)
	}
	ct := part.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestBuildMessageRejectsInvalidRecipient(t *testing.T) {
	if _, err := BuildMessage("bot@example.com", "not an address", "s", "b", time.Now()); err == nil {
		t.Fatalf("expected error for invalid recipient")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{From: "bot@example.com"}); err == nil {
		t.Fatalf("expected error without password")
	}
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	m, _ := New(Config{From: "bot@example.com", Password: "x"})
	err := m.Send(context.Background(), "  ", "s", "b")
	var mailErr *domain.MailError
	if !errors.As(err, &mailErr) {
		t.Fatalf("expected MailError for empty recipient, got %v", err)
	}
}

func TestSendReportsDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	_ = ln.Close()

	m, _ := New(Config{Host: "127.0.0.1", Port: addr.Port, From: "bot@example.com", Password: "x", Timeout: time.Second})
	err = m.Send(context.Background(), "ana@example.com", "s", "b")
	var mailErr *domain.MailError
	if !errors.As(err, &mailErr) {
		t.Fatalf("expected MailError for dial failure, got %v", err)
	}
}

type received struct {
	from string
	to   []string
	data []byte
}

// smtpBackend accepts one PLAIN login and records delivered messages
type smtpBackend struct {
	user, pass string

	mu       sync.Mutex
	messages []received
}

func (b *smtpBackend) NewSession(*smtp.Conn) (smtp.Session, error) {
	return &smtpSession{backend: b}, nil
}

func (b *smtpBackend) delivered() []received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]received(nil), b.messages...)
}

type smtpSession struct {
	backend *smtpBackend
	authed  bool
	msg     received
}

func (s *smtpSession) AuthMechanisms() []string { return []string{sasl.Plain} }

func (s *smtpSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username != s.backend.user || password != s.backend.pass {
			return errors.New("invalid credentials")
		}
		s.authed = true
		return nil
	}), nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}
	s.msg.from = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.msg.to = append(s.msg.to, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.msg.data = data
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.msg)
	s.backend.mu.Unlock()
	return nil
}

func (s *smtpSession) Reset()        { s.msg = received{} }
func (s *smtpSession) Logout() error { return nil }

// trackingListener reports every accepted connection once the server closes it
type trackingListener struct {
	net.Listener
	closed chan struct{}
}

func (l *trackingListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &trackedConn{Conn: c, closed: l.closed}, nil
}

type trackedConn struct {
	net.Conn
	once   sync.Once
	closed chan struct{}
}

func (c *trackedConn) Close() error {
	c.once.Do(func() { c.closed <- struct{}{} })
	return c.Conn.Close()
}

// startSMTPServer runs a STARTTLS-capable server on a loopback port and
// returns its port, a client TLS config trusting it, and a channel that
// receives once per closed connection.
func startSMTPServer(t *testing.T, be *smtpBackend) (int, *tls.Config, <-chan struct{}) {
	t.Helper()

	cert, pool := selfSignedCert(t)

	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	closed := make(chan struct{}, 4)
	go func() { _ = srv.Serve(&trackingListener{Listener: ln, closed: closed}) }()
	t.Cleanup(func() { _ = srv.Close() })

	clientTLS := &tls.Config{RootCAs: pool, ServerName: "127.0.0.1", MinVersion: tls.VersionTLS12}
	return ln.Addr().(*net.TCPAddr).Port, clientTLS, closed
}

func selfSignedCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IsCA:         true,

		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}, pool
}

func waitClosed(t *testing.T, closed <-chan struct{}) {
	t.Helper()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatalf("connection was not closed")
	}
}

func TestSendDeliversOverStartTLS(t *testing.T) {
	be := &smtpBackend{user: "bot@example.com", pass: "app-password"}
	port, clientTLS, closed := startSMTPServer(t, be)

	m, err := New(Config{
		Host:      "127.0.0.1",
		Port:      port,
		From:      "bot@example.com",
		Password:  "app-password",
		Timeout:   5 * time.Second,
		TLSConfig: clientTLS,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := m.Send(context.Background(), "ana@example.com", "Weekly jobs", "Two new openings."); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitClosed(t, closed)

	got := be.delivered()
	if len(got) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(got))
	}
	if got[0].from != "bot@example.com" || len(got[0].to) != 1 || got[0].to[0] != "ana@example.com" {
		t.Fatalf("envelope = %q -> %v", got[0].from, got[0].to)
	}

	r, err := mail.CreateReader(bytes.NewReader(got[0].data))
	if err != nil {
		t.Fatalf("CreateReader: %v", err)
	}
	if subject, _ := r.Header.Subject(); subject != "Weekly jobs" {
		t.Fatalf("subject = %q", subject)
	}
	part, err := r.NextPart()
	if err != nil {
		t.Fatalf("NextPart: %v", err)
	}
	ct, params, _ := part.Header.(*mail.InlineHeader).ContentType()
	if ct != "text/plain" || !strings.EqualFold(params["charset"], "utf-8") {
		t.Fatalf("content type = %q %v", ct, params)
	}
	body, _ := io.ReadAll(part.Body)
	if string(body) != "Two new openings." {
		t.Fatalf("body = %q", body)
	}
}

func TestSendReportsAuthFailure(t *testing.T) {
	be := &smtpBackend{user: "bot@example.com", pass: "app-password"}
	port, clientTLS, closed := startSMTPServer(t, be)

	m, _ := New(Config{
		Host:      "127.0.0.1",
		Port:      port,
		From:      "bot@example.com",
		Password:  "wrong",
		Timeout:   5 * time.Second,
		TLSConfig: clientTLS,
	})

	err := m.Send(context.Background(), "ana@example.com", "s", "b")
	var mailErr *domain.MailError
	if !errors.As(err, &mailErr) {
		t.Fatalf("expected MailError, got %v", err)
	}
	if !strings.Contains(err.Error(), "auth") {
		t.Fatalf("error should mention auth: %v", err)
	}
	waitClosed(t, closed)

	if n := len(be.delivered()); n != 0 {
		t.Fatalf("delivered %d messages after failed auth", n)
	}
}

func TestSendReportsStartTLSFailure(t *testing.T) {
	be := &smtpBackend{user: "bot@example.com", pass: "app-password"}
	port, _, closed := startSMTPServer(t, be)

	// default verification against an untrusted self-signed certificate
	m, _ := New(Config{
		Host:     "127.0.0.1",
		Port:     port,
		From:     "bot@example.com",
		Password: "app-password",
		Timeout:  5 * time.Second,
	})

	err := m.Send(context.Background(), "ana@example.com", "s", "b")
	var mailErr *domain.MailError
	if !errors.As(err, &mailErr) || !strings.Contains(err.Error(), "starttls") {
		t.Fatalf("expected starttls MailError, got %v", err)
	}
	waitClosed(t, closed)
}
