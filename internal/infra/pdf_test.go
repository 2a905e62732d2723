package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarEstadoCuentaPDF(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ec := &EstadoCuenta{
		NombreUsuario:  "mmuñpeñ",
		NombreCompleto: "María Muñoz Peña",
		Ingresos:       decimal.RequireFromString("500"),
		Egresos:        decimal.RequireFromString("120.5"),
		Balance:        decimal.RequireFromString("379.5"),
		GeneradoEn:     now,
		Transacciones: []model.Transaccion{
			{Detalles: "Mensualidad marzo", Tipo: model.TipoIngreso, Estatus: model.EstatusPagada, Monto: decimal.NewFromInt(500), CreatedAt: now},
			{Detalles: "Compra de suplementos para la tienda del gimnasio, lote grande", Tipo: model.TipoEgreso, Estatus: model.EstatusPagada, Monto: decimal.RequireFromString("120.5"), CreatedAt: now},
		},
	}

	out, err := GenerarEstadoCuentaPDF(ec)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerarEstadoCuentaPDF_SinMovimientos(t *testing.T) {
	desde := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := GenerarEstadoCuentaPDF(&EstadoCuenta{NombreUsuario: "jsmi", Desde: &desde, GeneradoEn: desde})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPeriodo(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Periodo: 01/01/2024 al 31/01/2024", periodo(&d, &h))
	assert.Equal(t, "Periodo: historico completo", periodo(nil, nil))
}
