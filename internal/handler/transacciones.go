package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/gin-gonic/gin"
)

type TransaccionesHandler struct {
	svc       service.TransaccionService
	generador service.GeneradorService
}

func NewTransaccionesHandler(svc service.TransaccionService, generador service.GeneradorService) *TransaccionesHandler {
	return &TransaccionesHandler{svc: svc, generador: generador}
}

// rangoFechas reads an inclusive YYYY-MM-DD range from the query. The end
// comes back as the start of the following day.
func rangoFechas(c *gin.Context, desdeKey, hastaKey string) (*time.Time, *time.Time, bool) {
	parse := func(key string) (*time.Time, bool) {
		raw := c.Query(key)
		if raw == "" {
			return nil, true
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(key+" debe tener formato AAAA-MM-DD"))
			return nil, false
		}
		return &t, true
	}
	desde, ok := parse(desdeKey)
	if !ok {
		return nil, nil, false
	}
	hasta, ok := parse(hastaKey)
	if !ok {
		return nil, nil, false
	}
	if desde != nil && hasta != nil && hasta.Before(*desde) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(hastaKey+" debe ser posterior a "+desdeKey))
		return nil, nil, false
	}
	if hasta != nil {
		fin := hasta.AddDate(0, 0, 1)
		hasta = &fin
	}
	return desde, hasta, true
}

// Crear godoc
// @Summary Registrar transaccion
// @Description El usuario autenticado queda como dueno. El estatus por defecto es Procesando.
// @Tags transacciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearTransaccionRequest true "Transaccion"
// @Success 201 {object} dto.TransaccionResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /transacciones [post]
func (h *TransaccionesHandler) Crear(c *gin.Context) {
	var req dto.CrearTransaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), solicitante(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar transacciones
// @Description Fuera del personal solo se devuelven las transacciones propias.
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param tipo query string false "Ingreso o Egreso"
// @Param metodo_pago query string false "Metodo de pago"
// @Param estatus query string false "Estatus"
// @Param usuario_id query int false "Dueno"
// @Param fecha_inicio query string false "AAAA-MM-DD"
// @Param fecha_fin query string false "AAAA-MM-DD (inclusive)"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina (max 200)"
// @Success 200 {object} dto.TransaccionListResponse
// @Router /transacciones [get]
func (h *TransaccionesHandler) Listar(c *gin.Context) {
	var filter dto.TransaccionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, errQuery(err))
		return
	}
	var ok bool
	if filter.UsuarioID, ok = parseOptionalUint(c, "usuario_id"); !ok {
		return
	}
	if filter.FechaInicio, filter.FechaFin, ok = rangoFechas(c, "fecha_inicio", "fecha_fin"); !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Balance godoc
// @Summary Balance de un usuario
// @Description Ingresos pagados menos egresos pagados. Por defecto, el del usuario autenticado.
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param usuario_id query int false "Usuario (solo personal)"
// @Success 200 {object} dto.BalanceResponse
// @Router /transacciones/balance [get]
func (h *TransaccionesHandler) Balance(c *gin.Context) {
	uid, ok := parseOptionalUint(c, "usuario_id")
	if !ok {
		return
	}
	resp, err := h.svc.Balance(c.Request.Context(), solicitante(c), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Estadisticas godoc
// @Summary Estadisticas globales de transacciones
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TransaccionEstadisticas
// @Router /transacciones/estadisticas [get]
func (h *TransaccionesHandler) Estadisticas(c *gin.Context) {
	resp, err := h.svc.Estadisticas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoCuenta godoc
// @Summary Estado de cuenta en PDF
// @Tags transacciones
// @Produce application/pdf
// @Security BearerAuth
// @Param usuario_id query int false "Usuario (solo personal)"
// @Param desde query string false "AAAA-MM-DD"
// @Param hasta query string false "AAAA-MM-DD (inclusive)"
// @Success 200 {file} file
// @Router /transacciones/estado-cuenta [get]
func (h *TransaccionesHandler) EstadoCuenta(c *gin.Context) {
	uid, ok := parseOptionalUint(c, "usuario_id")
	if !ok {
		return
	}
	desde, hasta, ok := rangoFechas(c, "desde", "hasta")
	if !ok {
		return
	}
	sol := solicitante(c)
	pdf, err := h.svc.EstadoCuentaPDF(c.Request.Context(), sol, uid, desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	target := sol.UsuarioID
	if uid != nil {
		target = *uid
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estado-cuenta-%d.pdf"`, target))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *TransaccionesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), solicitante(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransaccionesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarTransaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), solicitante(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancelar transaccion
// @Description Cambia el estatus a Cancelada. La fila nunca se elimina.
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de transaccion"
// @Success 200 {object} dto.TransaccionResponse
// @Router /transacciones/{id} [delete]
func (h *TransaccionesHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), solicitante(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Generar godoc
// @Summary Generar transacciones aleatorias
// @Tags transacciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarTransaccionesRequest true "Cantidad"
// @Success 201 {object} dto.GeneracionResponse
// @Router /transacciones/generar [post]
func (h *TransaccionesHandler) Generar(c *gin.Context) {
	var req dto.GenerarTransaccionesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.generador.GenerarTransacciones(c.Request.Context(), req.Cantidad)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
