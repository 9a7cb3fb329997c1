// scriptgen generates the Google Apps Script source for a field
// selection without running the server. Useful for inspecting the
// script a configuration would deploy.
//
// Usage:
//
//	scriptgen -fields order_id,billing_name -mode monthly -pro
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"sheets-bridge/internal/script"
	"sheets-bridge/internal/selection"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fields := flag.String("fields", "", "comma-separated field IDs (empty uses the default selection)")
	rawMode := flag.String("mode", "single", "sheet mode: single, monthly, daily, weekly, product, custom")
	template := flag.String("template", "", "sheet name template for custom mode")
	site := flag.String("site", "", "site name for the {site_name} token")
	pro := flag.Bool("pro", false, "enable pro fields and modes")
	out := flag.String("out", "", "write to file instead of stdout")
	flag.Parse()

	mode, err := script.ParseMode(*rawMode)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(*fields)
	fieldIDs := selection.Effective(raw, *pro)

	src, err := script.Generate(script.Options{
		FieldIDs:  fieldIDs,
		Mode:      mode,
		Template:  *template,
		SiteName:  *site,
		ProActive: *pro,
	})
	if err != nil {
		return err
	}

	if *out != "" {
		return os.WriteFile(*out, []byte(src), 0o644)
	}
	fmt.Print(src)
	return nil
}
