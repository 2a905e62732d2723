package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/middleware"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report json field names in validation errors.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError writes the status for err's kind. 5xx bodies are generic;
// the cause only goes to the log.
func respondError(c *gin.Context, err error) {
	status := apierror.HTTPStatus(err)
	var apiErr *apierror.Error
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Str("kind", apierror.KindOf(err).String()).
			Msg("request failed")
		msg := "Error interno del servidor"
		if errors.As(err, &apiErr) && apiErr.Kind == apierror.KindGenerationExhausted {
			msg = apiErr.Msg
		}
		c.JSON(status, apierror.New(msg))
		return
	}
	if errors.As(err, &apiErr) {
		c.JSON(status, apierror.New(apiErr.Msg))
		return
	}
	c.JSON(status, apierror.New(http.StatusText(status)))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUint reads a positive integer query parameter; absent means nil.
func parseOptionalUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, apierror.New(key+" invalido"))
		return nil, false
	}
	u := uint(v)
	return &u, true
}

// solicitante builds the service-level caller from the JWT claims.
func solicitante(c *gin.Context) service.Solicitante {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Solicitante{}
	}
	return service.Solicitante{UsuarioID: claims.UserID, Roles: claims.Roles}
}

var errPermisos = apierror.New("Permisos insuficientes")

func errQuery(err error) *apierror.APIError {
	return apierror.New("Parametros invalidos: " + err.Error())
}
