package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// BienvenidaPayload is the job body queued after a successful registration.
type BienvenidaPayload struct {
	Correo        string `json:"correo"`
	Nombre        string `json:"nombre"`
	NombreUsuario string `json:"nombre_usuario"`
}

// Sender is the SMTP side of the email worker.
type Sender interface {
	SendBienvenida(to, nombre, nombreUsuario string) error
}

// EmailWorker delivers welcome emails.
type EmailWorker struct {
	mailer Sender
}

func NewEmailWorker(mailer Sender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p BienvenidaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if p.Correo == "" {
		return errors.New("email_worker: empty correo")
	}
	if err := w.mailer.SendBienvenida(p.Correo, p.Nombre, p.NombreUsuario); err != nil {
		return err
	}
	log.Info().Str("to", p.Correo).Str("nombre_usuario", p.NombreUsuario).Msg("email_worker: bienvenida sent")
	return nil
}
