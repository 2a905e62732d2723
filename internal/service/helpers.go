package service

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/infra"
	"github.com/Alex01Dev/backend-gerencia/internal/worker"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MediaStore persists uploaded photos and hands back a stable reference.
type MediaStore interface {
	Store(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Notificador queues the welcome email. A nil Notificador disables it.
type Notificador interface {
	EnqueueBienvenida(ctx context.Context, p worker.BienvenidaPayload) error
}

const (
	defaultLimit = 20
	maxLimit     = 200

	fechaLayout = "2006-01-02"

	maxContrasenaBytes = 72
	mediaPrefix        = "/media/"
)

// runTx executes fn inside a GORM transaction. When db is nil (unit tests
// with stub repositories), fn is called directly with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// mapRepoErr turns a repository error into a categorized *apierror.Error.
// Errors that already carry a Kind pass through untouched.
func mapRepoErr(err error, notFound, op string) error {
	var apiErr *apierror.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierror.Conflict("El registro ya existe", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierror.Conflict("El registro esta referenciado por otros datos", err)
	default:
		return apierror.Storage(pkgerrors.Wrap(err, op))
	}
}

// paginar clamps page/limit and returns them with the matching total_pages.
func paginar(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPaginas(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// guardarFotografia decodes a base64 photo and stores it. Returns the reference.
func guardarFotografia(ctx context.Context, media MediaStore, b64 string, maxBytes int) (string, error) {
	// tolerate data URLs: "data:image/png;base64,...."
	if i := strings.Index(b64, ","); strings.HasPrefix(b64, "data:") && i > 0 {
		b64 = b64[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", apierror.Validation("fotografia no es base64 valido")
	}
	if len(data) == 0 {
		return "", apierror.Validation("fotografia vacia")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return "", apierror.Validation("fotografia excede el tamano maximo permitido")
	}
	if media == nil {
		return "", apierror.Storage(errors.New("media store not configured"))
	}
	ref, err := media.Store(ctx, data)
	if err != nil {
		if errors.Is(err, infra.ErrFormatoNoSoportado) {
			return "", apierror.Validation("fotografia debe ser JPEG, PNG o WebP")
		}
		return "", apierror.Storage(pkgerrors.Wrap(err, "store fotografia"))
	}
	return ref, nil
}

// borrarFotografia removes a stored photo; failures leave an orphan and are only logged.
func borrarFotografia(ctx context.Context, media MediaStore, ref string) {
	if media == nil || ref == "" {
		return
	}
	if err := media.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("fotografia", ref).Msg("fotografia huerfana: no se pudo eliminar")
	}
}

func parseFecha(s, campo string) (time.Time, error) {
	t, err := time.Parse(fechaLayout, s)
	if err != nil {
		return time.Time{}, apierror.Validation(campo + " debe tener formato AAAA-MM-DD")
	}
	return t, nil
}

func formatTS(t time.Time) string { return t.UTC().Format(time.RFC3339) }
