// Package report renders the downloadable site survey PDF: a risk summary
// for the current snapshot plus the retained alert history.
package report

import (
	"bytes"
	"fmt"

	"fibersense/internal/models"

	"github.com/jung-kurt/gofpdf"
)

func Build(snap models.Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FiberSense Site Survey Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "FiberSense Containment Survey Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Site: %s", snap.Site.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Session: %s", snap.Site.SessionID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", snap.Timestamp.Format("2006-01-02 15:04:05 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Risk Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("BARI score: %.0f / 100 (%s)", snap.Risk.BARI*100, snap.Risk.Classification), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Thermal %.0f%%   Pressure %.0f%%   Rack inlet %.0f%%",
		snap.Risk.Thermal*100, snap.Risk.Pressure*100, snap.Risk.Rack*100), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("ASHRAE envelope: %s", snap.Risk.ASHRAEClass), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Active breaches: %d", len(snap.ActiveBreaches)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Alert History (%d retained)", len(snap.Alerts)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(30, 7, "Time", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 7, "Level", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 7, "Zone", "1", 0, "L", true, 0, "")
	pdf.CellFormat(112, 7, "Message", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, a := range snap.Alerts {
		msg := a.Message
		if len(msg) > 70 {
			msg = msg[:67] + "..."
		}
		pdf.CellFormat(30, 6, a.Timestamp.Format("15:04:05"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 6, a.Level, "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 6, a.Zone, "1", 0, "L", false, 0, "")
		pdf.CellFormat(112, 6, msg, "1", 1, "L", false, 0, "")
	}
	if len(snap.Alerts) == 0 {
		pdf.CellFormat(190, 6, "No alerts recorded this session", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
