package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 5   // Line height in mm
	pdfFontSize   = 9
	pdfTabWidth   = 4 // Number of spaces for a tab
)

// generatePDF renders the same report as the text output into a PDF: banner,
// ASCII tree, then one syntax-highlighted section per file, grouped by
// category. Core PDF fonts only cover Windows-1252, so box drawing and emoji
// are left out.
func generatePDF(files []FileEntry, opts reportOptions, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Maps UTF-8 to the cp1252 encoding the core fonts use.
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Use a light style for print

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	cellWidth := float64(pdfPageWidth - 2*pdfMargin)
	generated := opts.Generated.Format(timestampFormat)

	// --- Banner ---
	pdf.SetFont("Helvetica", "B", pdfFontSize+4)
	pdf.MultiCell(cellWidth, pdfLineHeight+2, tr(opts.Title+" - CONCATENATED FILES"), "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	banner := fmt.Sprintf("Generated: %s\nProject Root: %s\n", generated, opts.AbsRoot)
	if opts.GitRevision != "" {
		banner += fmt.Sprintf("Git Revision: %s\n", opts.GitRevision)
	}
	banner += fmt.Sprintf("Total Files: %d", len(files))
	pdf.MultiCell(cellWidth, pdfLineHeight, tr(banner), "", "L", false)
	pdf.Ln(pdfLineHeight)

	// --- Output Tree ---
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.MultiCell(cellWidth, pdfLineHeight, "PROJECT STRUCTURE", "", "L", false)
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.MultiCell(cellWidth, pdfLineHeight, tr(buildTree(filepath.Base(opts.AbsRoot), files, asciiGlyphs)), "", "L", false)

	// --- Output Files ---
	current := Category(-1)
	for i, f := range files {
		category := categoryOf(f.Path)
		// New page for each category
		if category != current {
			current = category
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", pdfFontSize+3)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(cellWidth, pdfLineHeight+2, strings.ToUpper(category.String())+" FILES", "", "L", false)
			pdf.Ln(pdfLineHeight / 2)
		}

		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.SetTextColor(0, 0, 0)
		header := fmt.Sprintf("FILE %d/%d: %s", i+1, len(files), f.Rel)
		pdf.MultiCell(cellWidth, pdfLineHeight, tr(header), "", "L", false)
		pdf.SetFont("Helvetica", "", pdfFontSize-1)
		meta := fmt.Sprintf("Path: %s   Size: %s bytes", filepath.Dir(f.Path), formatThousands(f.Size))
		if opts.ShowTokens {
			meta += fmt.Sprintf("   Tokens: %s", formatThousands(int64(f.TokenCount)))
		}
		pdf.MultiCell(cellWidth, pdfLineHeight, tr(meta), "", "L", false)
		// Separator under the file header
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		if f.Size == 0 {
			pdf.SetFont("Courier", "I", pdfFontSize)
			pdf.MultiCell(cellWidth, pdfLineHeight, "[EMPTY FILE]", "", "L", false)
		} else {
			writeHighlightedCode(pdf, style, tr, fileContent(f), f.Path)
		}
		pdf.Ln(pdfLineHeight)
	}

	// --- Output Summary ---
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(cellWidth, pdfLineHeight, "END OF CONCATENATED PROJECT FILES", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	footer := fmt.Sprintf("Total files processed: %d\nGenerated: %s", len(files), generated)
	pdf.MultiCell(cellWidth, pdfLineHeight, footer, "", "L", false)

	// --- Save PDF ---
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}

// lexerFor picks a chroma lexer by filename, then by content.
func lexerFor(filePath, content string) chroma.Lexer {
	lexer := lexers.Match(filepath.Base(filePath))
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// writeHighlightedCode writes content token by token in the style's colours.
// Falls back to plain Courier when tokenizing fails.
func writeHighlightedCode(pdf *gofpdf.Fpdf, style *chroma.Style, tr func(string) string, content, filePath string) {
	pdf.SetFont("Courier", "", pdfFontSize)

	iterator, err := lexerFor(filePath, content).Tokenise(nil, content)
	if err != nil {
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(float64(pdfPageWidth-2*pdfMargin), pdfLineHeight, tr(expandTabs(content)), "", "L", false)
		return
	}

	fg := style.Get(chroma.Text).Colour
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		// Fall back to the style's text colour

		switch {
		case entry.Colour.IsSet():
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		case fg.IsSet():
			pdf.SetTextColor(int(fg.Red()), int(fg.Green()), int(fg.Blue()))
		default:
			pdf.SetTextColor(0, 0, 0)
		}

		pdf.Write(pdfLineHeight, tr(expandTabs(token.Value)))
	}
	pdf.SetTextColor(0, 0, 0) // Reset for the next header
	pdf.Ln(-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", pdfTabWidth))
}
