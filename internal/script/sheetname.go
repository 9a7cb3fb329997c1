package script

import "fmt"

// namer emits the mode-specific JavaScript that resolves which sheet tabs
// a payload is written to. The five non-single modes are all variations
// of one keyed sheet-name strategy, so each mode is a small
// implementation of this interface rather than a separate generator.
type namer interface {
	// selector returns the body of getTargetSheets(ss, data).
	// Must return a JS array of sheet objects.
	selector() string
	// helpers returns extra mode-specific functions to embed.
	helpers() []string
	// needsDateHelpers reports whether the shared date/lookup helpers
	// (getOrCreateSheet, parseOrderDate, isoWeek, pad2) must be emitted.
	needsDateHelpers() bool
}

func namerFor(mode Mode, opts Options) (namer, error) {
	switch mode {
	case ModeSingle:
		return singleNamer{}, nil
	case ModeMonthly:
		return monthlyNamer{}, nil
	case ModeDaily:
		return dailyNamer{}, nil
	case ModeWeekly:
		return weeklyNamer{}, nil
	case ModeProductWise:
		return productNamer{}, nil
	case ModeCustom:
		tpl := opts.Template
		if tpl == "" {
			tpl = DefaultTemplate
		}
		return customNamer{template: tpl, siteName: opts.SiteName}, nil
	}
	return nil, fmt.Errorf("unknown sheet mode %q", mode)
}

type singleNamer struct{}

func (singleNamer) selector() string {
	return "    return [ss.getActiveSheet()];\n"
}
func (singleNamer) helpers() []string      { return nil }
func (singleNamer) needsDateHelpers() bool { return false }

type monthlyNamer struct{}

func (monthlyNamer) selector() string {
	return `    const d = parseOrderDate(data.order_date);
    const name = MONTH_NAMES[d.getMonth()] + ' ' + d.getFullYear();
    return [getOrCreateSheet(ss, name)];
`
}
func (monthlyNamer) helpers() []string      { return nil }
func (monthlyNamer) needsDateHelpers() bool { return true }

type dailyNamer struct{}

func (dailyNamer) selector() string {
	return `    const d = parseOrderDate(data.order_date);
    const name = d.getFullYear() + '-' + pad2(d.getMonth() + 1) + '-' + pad2(d.getDate());
    return [getOrCreateSheet(ss, name)];
`
}
func (dailyNamer) helpers() []string      { return nil }
func (dailyNamer) needsDateHelpers() bool { return true }

type weeklyNamer struct{}

func (weeklyNamer) selector() string {
	return `    const d = parseOrderDate(data.order_date);
    const name = 'Week ' + isoWeek(d) + ' ' + d.getFullYear();
    return [getOrCreateSheet(ss, name)];
`
}
func (weeklyNamer) helpers() []string      { return nil }
func (weeklyNamer) needsDateHelpers() bool { return true }

// productNamer writes the full row to one tab per product on the order.
type productNamer struct{}

func (productNamer) selector() string {
	return `    const names = String(data.product_name || 'Orders').split(', ');
    return names.map(function(name) {
        return getOrCreateSheet(ss, name);
    });
`
}
func (productNamer) helpers() []string      { return nil }
func (productNamer) needsDateHelpers() bool { return true }

// customNamer expands the merchant template at runtime. The site name is
// baked in at generation time; date tokens and the order count resolve
// against the incoming payload.
type customNamer struct {
	template string
	siteName string
}

func (n customNamer) selector() string {
	return "    return [getOrCreateSheet(ss, resolveSheetName(ss, data))];\n"
}

func (n customNamer) helpers() []string {
	return []string{fmt.Sprintf(`function resolveSheetName(ss, data) {
    const d = parseOrderDate(data.order_date);
    const orderCount = ss.getSheets().reduce(function(total, sheet) {
        return total + Math.max(0, sheet.getLastRow() - 1);
    }, 0) + 1;

    let name = %s;
    name = name.replace('{month}', MONTH_NAMES[d.getMonth()]);
    name = name.replace('{year}', String(d.getFullYear()));
    name = name.replace('{day}', pad2(d.getDate()));
    name = name.replace('{week}', String(isoWeek(d)));
    name = name.replace('{site_name}', %s);
    name = name.replace('{order_count}', String(orderCount));
    return name;
}
`, jsString(n.template), jsString(n.siteName))}
}

func (customNamer) needsDateHelpers() bool { return true }
