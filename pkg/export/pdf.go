package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
)

const (
	pageMargin  = 15.0
	labelWidth  = 45.0
	valueWidth  = 135.0
	rowHeight   = 7.0
	tableGap    = 5.0
	fontFamily  = "Helvetica"
	contentType = "application/pdf"
)

type rgb struct{ r, g, b int }

var (
	colorTitle     = rgb{0, 0, 139}
	colorHeader    = rgb{211, 211, 211}
	colorEven      = rgb{245, 245, 245}
	colorOdd       = rgb{224, 255, 255}
	colorActive    = rgb{255, 0, 0}
	colorInactive  = rgb{255, 255, 0}
	colorBlack     = rgb{0, 0, 0}
	colorWhite     = rgb{255, 255, 255}
	colorNoneAlert = rgb{255, 0, 0}
)

func PDFContentType() string {
	return contentType
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) fill(c rgb) {
	w.pdf.SetFillColor(c.r, c.g, c.b)
}

func (w *pdfWriter) text(c rgb) {
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) row(label, value string, fill rgb, textColor rgb, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	w.pdf.SetFont(fontFamily, style, 10)
	w.fill(fill)
	w.text(textColor)
	w.pdf.CellFormat(labelWidth, rowHeight, w.tr(label), "1", 0, "R", true, 0, "")
	w.pdf.CellFormat(valueWidth, rowHeight, w.tr(value), "1", 1, "L", true, 0, "")
}

func stripe(i int) rgb {
	if i%2 == 0 {
		return colorEven
	}
	return colorOdd
}

func (w *pdfWriter) table(heading string, pairs [][2]string, alerts []AlertLine) {
	// keep a small table on one page
	_, pageHeight := w.pdf.GetPageSize()
	needed := float64(len(pairs)+1+2*len(alerts)) * rowHeight
	if w.pdf.GetY()+needed > pageHeight-pageMargin && needed < pageHeight-2*pageMargin {
		w.pdf.AddPage()
	}

	w.row(heading, "Value", colorHeader, colorBlack, true)
	for i, p := range pairs {
		w.row(p[0], p[1], stripe(i+1), colorBlack, false)
	}
	for _, a := range alerts {
		bg, fg := colorInactive, colorBlack
		if a.Active {
			bg, fg = colorActive, colorWhite
		}
		w.row(fmt.Sprintf("Alert (%s)", a.Status), a.Message, bg, fg, false)
		w.row("", fmt.Sprintf("Activated: %s - Deactivated: %s", a.ActivatedAt, a.DeactivatedAt), bg, fg, false)
	}
	w.pdf.Ln(tableGap)
}

func formatOptional(v *float64, suffix string) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%s", *v, suffix)
}

// RenderPDF writes doc as an A4 document: title, description, one table per
// row and the totals block.
func RenderPDF(doc *Document, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont(fontFamily, "B", 18)
	w.text(colorTitle)
	pdf.CellFormat(0, 10, w.tr(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 11)
	w.text(colorBlack)
	for _, line := range doc.Description() {
		pdf.CellFormat(0, 6, w.tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(8)

	rows := doc.Rows()
	if len(rows) == 0 {
		pdf.SetFont(fontFamily, "", 12)
		pdf.CellFormat(0, 8, "No records found for the selected filters.", "", 1, "L", false, 0, "")
		return pdf.Output(out)
	}

	heading := "Report"
	if doc.Mode == filter.ModeAlert {
		heading = "Alert"
	}

	for _, row := range rows {
		switch r := row.(type) {
		case RealReport:
			w.table(fmt.Sprintf("%d. %s", r.Index, heading), [][2]string{
				{"Device", r.DeviceName},
				{"Level", fmt.Sprintf("%d%%", r.Level)},
				{"Door", r.DoorLabel},
				{"Timestamp", r.Timestamp},
			}, r.Alerts)
		case PlaceholderRow:
			w.table(fmt.Sprintf("%d. %s", r.Index, heading), [][2]string{
				{"Device", r.DeviceName},
				{"Level", fmt.Sprintf("%d%%", r.Level())},
				{"Door", r.DoorLabel()},
				{"Timestamp", r.Timestamp()},
			}, nil)
		}
	}

	if doc.NoActiveAlerts {
		pdf.SetFont(fontFamily, "B", 12)
		w.text(colorNoneAlert)
		pdf.CellFormat(0, 8, "No alerts are active at the moment.", "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont(fontFamily, "B", 12)
	w.text(colorTitle)
	pdf.CellFormat(0, 8, "Totals", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 11)
	w.text(colorBlack)
	lines := []string{
		"Mean measured level: " + formatOptional(doc.Totals.MeanLevel, "%"),
		fmt.Sprintf("Door openings: %d", doc.Totals.DoorOpenCount),
		"Mean alert duration: " + formatOptional(doc.Totals.MeanAlertMinutes, " minutes"),
	}
	if doc.Totals.TotalAlerts != nil {
		lines = append(lines, fmt.Sprintf("Total alerts recorded: %d", *doc.Totals.TotalAlerts))
	}
	for _, line := range lines {
		pdf.CellFormat(0, 6, w.tr(line), "", 1, "L", false, 0, "")
	}

	return pdf.Output(out)
}
