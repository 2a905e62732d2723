package infra

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Alex01Dev/backend-gerencia/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends transactional email through the configured SMTP relay.
// Every send goes through a circuit breaker so a dead relay fails fast.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	cb       *CircuitBreaker
	send     func(e *email.Email, addr string, a smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.SMTPUser,
		cb:       NewCircuitBreaker(DefaultCBConfig("smtp")),
		send:     func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

var bienvenidaTmpl = template.Must(template.New("bienvenida").Parse(`<p>Hola {{.Nombre}},</p>
<p>Tu cuenta en el gimnasio fue creada. Tu nombre de usuario es <b>{{.NombreUsuario}}</b>.</p>
<p>Puedes iniciar sesion con ese usuario o con este correo.</p>`))

// SendBienvenida sends the welcome message with the generated handle.
func (m *Mailer) SendBienvenida(to, nombre, nombreUsuario string) error {
	var body bytes.Buffer
	if err := bienvenidaTmpl.Execute(&body, struct{ Nombre, NombreUsuario string }{nombre, nombreUsuario}); err != nil {
		return fmt.Errorf("mailer: render bienvenida: %w", err)
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = "Bienvenido al gimnasio"
	e.HTML = body.Bytes()
	e.Text = []byte(fmt.Sprintf("Hola %s, tu nombre de usuario es %s.", nombre, nombreUsuario))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error { return m.send(e, m.addr, auth) })
}
