// Package printing renders printable payslips.
//
// Two engines produce PDF output:
//   - GofpdfRenderer draws the payslip natively and needs no external binary.
//   - ChromedpRenderer fills an HTML template and prints it through a
//     headless Chrome instance.
//
// NewRenderer selects the engine from configuration:
//
//	renderer, err := printing.NewRenderer(cfg.Printing, logger)
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//	doc, err := renderer.RenderPayslip(ctx, payslip)
package printing
