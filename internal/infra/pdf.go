package infra

// pdf.go: account statement ("estado de cuenta") rendering with go-pdf/fpdf.
// Letter-size page with:
//   - gym header and account holder
//   - optional date range
//   - transaction table (fecha, detalle, tipo, estatus, monto)
//   - paid income / paid expense / balance summary

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// EstadoCuenta is everything the statement prints.
type EstadoCuenta struct {
	NombreUsuario  string
	NombreCompleto string
	Desde          *time.Time
	Hasta          *time.Time
	Ingresos       decimal.Decimal
	Egresos        decimal.Decimal
	Balance        decimal.Decimal
	Transacciones  []model.Transaccion
	GeneradoEn     time.Time
}

// GenerarEstadoCuentaPDF renders the statement and returns the PDF bytes.
func GenerarEstadoCuentaPDF(ec *EstadoCuenta) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, "Gym Bull", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Estado de cuenta", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%s (%s)", ec.NombreCompleto, ec.NombreUsuario)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, periodo(ec.Desde, ec.Hasta), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Generado: "+ec.GeneradoEn.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Table ────────────────────────────────────────────────────────────────
	widths := []float64{contentW * 0.16, contentW * 0.38, contentW * 0.14, contentW * 0.14, contentW * 0.18}
	headers := []string{"Fecha", "Detalle", "Tipo", "Estatus", "Monto"}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		align := "L"
		if i == len(headers)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	if len(ec.Transacciones) == 0 {
		pdf.CellFormat(contentW, 6, "Sin movimientos en el periodo", "", 1, "C", false, 0, "")
	}
	for _, t := range ec.Transacciones {
		detalle := []rune(t.Detalles)
		if len(detalle) > 40 {
			detalle = append(detalle[:39], '.')
		}
		monto := "$" + t.Monto.StringFixed(2)
		if t.Tipo == model.TipoEgreso {
			monto = "-" + monto
		}
		pdf.CellFormat(widths[0], 5, t.CreatedAt.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 5, tr(string(detalle)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 5, t.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 5, t.Estatus, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 5, monto, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW - widths[4]
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Ingresos pagados:", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 5, "$"+ec.Ingresos.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 5, "Egresos pagados:", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 5, "-$"+ec.Egresos.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 6, "BALANCE:", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 6, "$"+ec.Balance.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render estado de cuenta: %w", err)
	}
	return buf.Bytes(), nil
}

func periodo(desde, hasta *time.Time) string {
	switch {
	case desde != nil && hasta != nil:
		return fmt.Sprintf("Periodo: %s al %s", desde.Format("02/01/2006"), hasta.Format("02/01/2006"))
	case desde != nil:
		return "Desde: " + desde.Format("02/01/2006")
	case hasta != nil:
		return "Hasta: " + hasta.Format("02/01/2006")
	default:
		return "Periodo: historico completo"
	}
}
