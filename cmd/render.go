package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"billing/internal/composer"
	"billing/internal/loader"
	"billing/internal/logger"
	"billing/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [invoice-file]",
	Short: "Compose an invoice document and render it to PDF",
	Long: `Calculate an invoice, fill a JSON document template with its sections
and render the result to PDF.

Labels, fonts, logo and colors come from the environment:
  LABELS_PATH - JSON label dictionary merged over the English defaults
  FONTS_PATH  - JSON list of font families
  FONT_DIR    - folder holding the font files (default: fonts)
  LOGO_PATH   - logo image spliced into the footer of free designs
  PRIMARY_COLOR, SECONDARY_COLOR, FONT_SIZE, BODY_FONT, HEADER_FONT

The PDF is written below OUTPUT_DIR, or to GCS_BUCKET with --upload.`,
	Example: `  # Render to ./out/invoice-0007.pdf
  billing render invoice.json --template templates/clean.json

  # Print the resolved document tree instead of rendering
  billing render invoice.json --template templates/clean.json --tree

  # Upload the PDF to Google Cloud Storage
  billing render invoice.json --template templates/clean.json --upload`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("template", "t", "", "Document template JSON file [REQUIRED]")
	renderCmd.Flags().StringP("output", "o", "", "Stored file name (default: <entity>-<number>.pdf)")
	renderCmd.Flags().Bool("tree", false, "Print the resolved document tree as JSON")
	renderCmd.Flags().Bool("upload", false, "Store the PDF in Google Cloud Storage")
	renderCmd.Flags().String("page-size", "A4", "Page size when the template sets none")
	renderCmd.Flags().Int("timeout", 60, "Timeout in seconds")

	renderCmd.MarkFlagRequired("template")
}

func runRender(cmd *cobra.Command, args []string) error {
	requestID := uuid.NewString()
	log := logger.WithJob("render", requestID, args[0])

	templatePath, _ := cmd.Flags().GetString("template")
	name, _ := cmd.Flags().GetString("output")
	tree, _ := cmd.Flags().GetBool("tree")
	upload, _ := cmd.Flags().GetBool("upload")
	pageSize, _ := cmd.Flags().GetString("page-size")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if _, err := validateInputFile(args[0], log); err != nil {
		return err
	}
	if _, err := validateInputFile(templatePath, log); err != nil {
		return err
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContext(time.Duration(timeoutSecs)*time.Second, log)
	defer cancel()

	inv, err := loader.LoadInvoice(args[0])
	if err != nil {
		return err
	}
	tpl, err := loader.LoadTemplate(templatePath)
	if err != nil {
		return err
	}
	res, err := loadResources(cfg)
	if err != nil {
		return err
	}

	saver, release, err := newSaver(ctx, cfg, upload)
	if err != nil {
		return err
	}
	defer release()
	res.Backend = render.New(saver, render.WithPageSize(pageSize))

	doc, err := composer.New().Compose(inv, tpl, res)
	if err != nil {
		log.Error().Err(err).Msg("Document composition failed")
		return fmt.Errorf("failed to compose document: %w", err)
	}

	if tree {
		return writeJSON(doc, "", log)
	}

	if name == "" {
		entity := "invoice"
		if inv.IsQuote {
			entity = "quote"
		}
		name = documentName(entity, inv.InvoiceNumber, inv.PublicID)
	}

	start := time.Now()
	if err := doc.Save(ctx, name); err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to render document")
		return fmt.Errorf("failed to render document: %w", err)
	}

	log.Info().
		Str("name", name).
		Bool("upload", upload).
		Dur("duration", time.Since(start)).
		Msg("Document rendered")
	fmt.Printf("Saved %s\n", name)
	return nil
}
