// Package script generates the companion Google Apps Script source that
// merchants deploy as a web app. The generated script receives the export
// payload via doPost and upserts one row per order, keyed by order ID.
//
// Generation is a pure function of its options: same options, byte-identical
// output. That property is what makes golden tests possible and lets the
// admin UI show a stable diff when settings change.
package script

import (
	"encoding/json"
	"fmt"
	"strings"

	"sheets-bridge/internal/catalog"
)

// Mode selects how the generated script picks the target sheet tab.
type Mode string

const (
	// ModeSingle writes every order to the active sheet.
	ModeSingle Mode = "single"
	// ModeMonthly writes to one tab per calendar month ("March 2024").
	ModeMonthly Mode = "monthly"
	// ModeDaily writes to one tab per day ("2024-03-05").
	ModeDaily Mode = "daily"
	// ModeWeekly writes to one tab per ISO week ("Week 10 2024").
	ModeWeekly Mode = "weekly"
	// ModeProductWise writes the row to one tab per product in the order.
	ModeProductWise Mode = "product"
	// ModeCustom derives the tab name from a merchant template.
	ModeCustom Mode = "custom"
)

// DefaultTemplate is the custom-mode template used when none is configured.
const DefaultTemplate = "Orders - {month} {year}"

// ParseMode normalizes a stored mode value. The legacy setting used "none"
// for the single-sheet behavior.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "single":
		return ModeSingle, nil
	case "monthly":
		return ModeMonthly, nil
	case "daily":
		return ModeDaily, nil
	case "weekly":
		return ModeWeekly, nil
	case "product", "productwise", "product_wise":
		return ModeProductWise, nil
	case "custom":
		return ModeCustom, nil
	}
	return "", fmt.Errorf("unknown sheet mode %q", s)
}

// Pro reports whether the mode needs an active pro license.
// Only the single-sheet behavior ships free.
func (m Mode) Pro() bool {
	return m != ModeSingle
}

// Options configures one generation run.
type Options struct {
	// FieldIDs is the effective selection, in column order.
	// Unknown IDs are skipped.
	FieldIDs []string
	// Mode picks the sheet-naming strategy.
	Mode Mode
	// Template is the custom-mode name template. Empty falls back to
	// DefaultTemplate. Ignored by other modes.
	Template string
	// SiteName replaces the {site_name} token.
	SiteName string
	// ProActive gates pro fields and pro modes. When false, the mode is
	// forced to single and pro fields are stripped, never partially kept.
	ProActive bool
}

// Generate emits the Apps Script source for the given options.
// Returns an error only when no usable field remains after gating; a
// partial or garbled script is never returned.
func Generate(opts Options) (string, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeSingle
	}
	if !opts.ProActive {
		mode = ModeSingle
	}

	fieldIDs := opts.FieldIDs
	if !opts.ProActive {
		var kept []string
		for _, id := range fieldIDs {
			if !catalog.IsPro(id) {
				kept = append(kept, id)
			}
		}
		fieldIDs = kept
	}

	var fields []catalog.Field
	for _, id := range fieldIDs {
		if f, ok := catalog.Lookup(id); ok {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("no exportable fields selected")
	}

	n, err := namerFor(mode, opts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeHeaderComment(&b, fields, mode)
	writeConstants(&b, fields)
	writeDoPost(&b)
	b.WriteString("function getTargetSheets(ss, data) {\n")
	b.WriteString(n.selector())
	b.WriteString("}\n\n")
	writeUpsertFunctions(&b)
	for _, h := range n.helpers() {
		b.WriteString(h)
		b.WriteString("\n")
	}
	writeSharedHelpers(&b, n.needsDateHelpers())
	return b.String(), nil
}

// === Emission ===

func writeHeaderComment(b *strings.Builder, fields []catalog.Field, mode Mode) {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	fmt.Fprintf(b, "// Google Apps Script for WooCommerce order export\n")
	fmt.Fprintf(b, "// Sheet mode: %s\n", mode)
	fmt.Fprintf(b, "// Fields: %s\n\n", strings.Join(labels, ", "))
}

// writeConstants embeds the header row and the label map. Both follow the
// selection order; FIELD_MAP is emitted by hand because encoding/json
// sorts object keys.
func writeConstants(b *strings.Builder, fields []catalog.Field) {
	b.WriteString("const HEADERS = [\n")
	for _, f := range fields {
		fmt.Fprintf(b, "    %s,\n", jsString(f.Label))
	}
	b.WriteString("];\n\n")

	b.WriteString("const FIELD_MAP = {\n")
	for _, f := range fields {
		fmt.Fprintf(b, "    %s: %s,\n", jsString(f.ID), jsString(f.Label))
	}
	b.WriteString("};\n\n")
}

func writeDoPost(b *strings.Builder) {
	b.WriteString(`function doPost(e) {
    try {
        const data = JSON.parse(e.postData.contents);
        const ss = SpreadsheetApp.getActiveSpreadsheet();
        const sheets = getTargetSheets(ss, data);
        sheets.forEach(function(sheet) {
            initializeSheet(sheet);
            upsertRow(sheet, data);
        });
        return ContentService.createTextOutput(JSON.stringify({
            status: 'success',
            message: 'Order data saved successfully'
        })).setMimeType(ContentService.MimeType.JSON);
    } catch (error) {
        return ContentService.createTextOutput(JSON.stringify({
            status: 'error',
            message: error.toString()
        })).setMimeType(ContentService.MimeType.JSON);
    }
}

`)
}

func writeUpsertFunctions(b *strings.Builder) {
	b.WriteString(`function initializeSheet(sheet) {
    if (sheet.getLastRow() === 0) {
        sheet.appendRow(HEADERS);
    }
}

function upsertRow(sheet, data) {
    const lastRow = sheet.getLastRow();
    if (lastRow > 1) {
        const orderIds = sheet.getRange(2, 1, lastRow - 1, 1).getValues().flat().map(String);
        const index = orderIds.indexOf(String(data.order_id));
        if (index !== -1) {
            updateExistingRow(sheet, index, data);
            return;
        }
    }
    addNewRow(sheet, data);
}

function updateExistingRow(sheet, existingRowIndex, data) {
    const row = existingRowIndex + 2; // +2 for header row and 0-based index

    HEADERS.forEach(function(fieldLabel, index) {
        const fieldKey = getFieldKeyFromLabel(fieldLabel);
        if (data[fieldKey] !== undefined) {
            sheet.getRange(row, index + 1).setValue(data[fieldKey]);
        }
    });
}

function addNewRow(sheet, data) {
    const rowData = [];

    HEADERS.forEach(function(fieldLabel) {
        const fieldKey = getFieldKeyFromLabel(fieldLabel);
        rowData.push(data[fieldKey] || '');
    });

    sheet.appendRow(rowData);
}

function getFieldKeyFromLabel(fieldLabel) {
    // Reverse lookup: find key by label
    for (const [key, label] of Object.entries(FIELD_MAP)) {
        if (label === fieldLabel) {
            return key;
        }
    }

    // Fallback: convert label to lowercase with underscores
    return fieldLabel.toLowerCase().replace(/ /g, '_');
}

// Menu hook to set up headers before the first order arrives
function manualInitialize() {
    const sheet = SpreadsheetApp.getActiveSpreadsheet().getActiveSheet();
    initializeSheet(sheet);
}

`)
}

// writeSharedHelpers emits helpers used by the non-single modes.
func writeSharedHelpers(b *strings.Builder, withDates bool) {
	if !withDates {
		return
	}
	b.WriteString(`const MONTH_NAMES = ['January', 'February', 'March', 'April', 'May', 'June',
    'July', 'August', 'September', 'October', 'November', 'December'];

function getOrCreateSheet(ss, name) {
    let sheet = ss.getSheetByName(name);
    if (!sheet) {
        sheet = ss.insertSheet(name);
    }
    return sheet;
}

function parseOrderDate(value) {
    // order_date arrives as "YYYY-MM-DD HH:MM:SS"
    const d = new Date(String(value).replace(' ', 'T'));
    if (isNaN(d.getTime())) {
        return new Date();
    }
    return d;
}

function isoWeek(d) {
    const date = new Date(Date.UTC(d.getFullYear(), d.getMonth(), d.getDate()));
    const dayNum = date.getUTCDay() || 7;
    date.setUTCDate(date.getUTCDate() + 4 - dayNum);
    const yearStart = new Date(Date.UTC(date.getUTCFullYear(), 0, 1));
    return Math.ceil((((date - yearStart) / 86400000) + 1) / 7);
}

function pad2(n) {
    return n < 10 ? '0' + n : String(n);
}
`)
}

// jsString renders a string as a safe JavaScript string literal. Labels and
// templates are merchant-controlled and may contain quotes or newlines.
func jsString(s string) string {
	// JSON string literals are valid JS string literals.
	out, _ := json.Marshal(s)
	return string(out)
}
