package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mbox2html/internal/archive"
	"mbox2html/internal/config"
	"mbox2html/internal/email"
	"mbox2html/internal/sanitize"
	"mbox2html/internal/site"
)

const defaultOutputDir = "email_archive"

func newConvertCmd() *cobra.Command {
	var (
		previewLength      int
		progressEvery      int
		keepExternalImages bool
		keepBase64Images   bool
		keepStyles         bool
		keepLinks          bool
		keepTrackingPixels bool
		base64Threshold    int
		maxStyleLength     int
		encoding           string
		fallbackEncoding   string
		verbose            bool
		quiet              bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input.mbox> [output-dir]",
		Short: "Convert an mbox container into a browsable HTML archive",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			outputDir := defaultOutputDir
			if len(args) == 2 {
				outputDir = args[1]
			}
			if verbose && quiet {
				return fmt.Errorf("use either --verbose or --quiet")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("preview-length") {
				cfg.Processing.PreviewLength = previewLength
			}
			if flags.Changed("progress-every") {
				cfg.Processing.ProgressEvery = progressEvery
			}
			if flags.Changed("keep-external-images") {
				cfg.Sanitize.StripExternalImages = !keepExternalImages
			}
			if flags.Changed("keep-base64-images") {
				cfg.Sanitize.StripBase64Images = !keepBase64Images
			}
			if flags.Changed("keep-styles") {
				cfg.Sanitize.StripStyles = !keepStyles
			}
			if flags.Changed("keep-links") {
				cfg.Sanitize.StripLinkElements = !keepLinks
			}
			if flags.Changed("keep-tracking-pixels") {
				cfg.Sanitize.StripTrackingPixels = !keepTrackingPixels
			}
			if flags.Changed("base64-threshold") {
				cfg.Sanitize.Base64Threshold = base64Threshold
			}
			if flags.Changed("max-style-length") {
				cfg.Sanitize.MaxStyleLength = maxStyleLength
			}
			if flags.Changed("encoding") {
				cfg.Encoding.Default = encoding
			}
			if flags.Changed("fallback-encoding") {
				cfg.Encoding.Fallback = fallbackEncoding
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("mbox file not found: %s", input)
			}

			level := cfg.Log.Level
			if verbose {
				level = "debug"
			}
			if quiet {
				level = "error"
			}
			logger, err := newLogger(level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			out := cmd.OutOrStdout()
			if isTerminal() {
				printBanner(out, input, info.Size(), outputDir)
			}

			gen := site.NewGenerator(outputDir, cfg.Output.EmailsDirname, cfg.Output.AttachmentsDirname, logger)
			if err := gen.Setup(); err != nil {
				return err
			}

			encodings := []string{cfg.Encoding.Default}
			if cfg.Encoding.Fallback != "" {
				encodings = append(encodings, cfg.Encoding.Fallback)
			}

			resolver := email.NewResolver(encodings, logger)
			sanitizer := sanitize.New(sanitize.Rules{
				StripExternalImages: cfg.Sanitize.StripExternalImages,
				StripBase64Images:   cfg.Sanitize.StripBase64Images,
				StripStyles:         cfg.Sanitize.StripStyles,
				StripLinkElements:   cfg.Sanitize.StripLinkElements,
				StripTrackingPixels: cfg.Sanitize.StripTrackingPixels,
				Base64SizeThreshold: cfg.Sanitize.Base64Threshold,
				MaxStyleAttrLength:  cfg.Sanitize.MaxStyleLength,
			})
			extractor := archive.NewExtractor(gen.AttachmentsDir(), cfg.Output.AttachmentsDirname, logger)
			ingestor := archive.NewIngestor(archive.Options{
				PreviewLength: cfg.Processing.PreviewLength,
				ProgressEvery: cfg.Processing.ProgressEvery,
			}, resolver, sanitizer, extractor, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			// Pages are written as records stream by; only the lightweight
			// index metadata is held until the end.
			var index []*archive.Email
			sum, err := ingestor.Run(ctx, input, func(rec *archive.Email) error {
				if err := gen.WriteEmailPage(rec); err != nil {
					return err
				}
				rec.BodyText, rec.BodyHTML = "", ""
				index = append(index, rec)
				return nil
			})
			if err != nil {
				return err
			}
			if len(index) == 0 {
				return fmt.Errorf("no messages could be processed from %s", input)
			}

			if err := gen.WriteIndex(index); err != nil {
				return err
			}

			printSummary(out, sum, gen.IndexPath())
			return nil
		},
	}

	cmd.Flags().IntVar(&previewLength, "preview-length", 200, "Preview length in characters")
	cmd.Flags().IntVar(&progressEvery, "progress-every", 100, "Log progress every N messages")
	cmd.Flags().BoolVar(&keepExternalImages, "keep-external-images", false, "Keep external images instead of replacing them")
	cmd.Flags().BoolVar(&keepBase64Images, "keep-base64-images", false, "Keep oversized inline images")
	cmd.Flags().BoolVar(&keepStyles, "keep-styles", false, "Keep style blocks and long style attributes")
	cmd.Flags().BoolVar(&keepLinks, "keep-links", false, "Keep <link> elements")
	cmd.Flags().BoolVar(&keepTrackingPixels, "keep-tracking-pixels", false, "Keep 1x1 tracking images")
	cmd.Flags().IntVar(&base64Threshold, "base64-threshold", 1000, "Serialized length above which inline images are replaced")
	cmd.Flags().IntVar(&maxStyleLength, "max-style-length", 500, "Longest style attribute kept intact")
	cmd.Flags().StringVar(&encoding, "encoding", "utf-8", "Primary payload encoding")
	cmd.Flags().StringVar(&fallbackEncoding, "fallback-encoding", "latin-1", "Fallback payload encoding")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Errors only")

	return cmd
}

func printBanner(w io.Writer, input string, size int64, outputDir string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "  mbox2html - Offline Mail Archive Generator")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Input:  %s (%s)\n", input, archive.FormatSize(size))
	fmt.Fprintf(w, "Output: %s\n", outputDir)
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, sum *archive.Summary, indexPath string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "  Conversion Complete")
	fmt.Fprintln(w, line)

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "Messages found:\t%d\n", sum.Found)
	fmt.Fprintf(tw, "Processed:\t%d\n", sum.Processed)
	fmt.Fprintf(tw, "Skipped:\t%d\n", sum.Skipped)
	fmt.Fprintf(tw, "Attachments:\t%d\n", sum.Attachments)
	stats := sum.Sanitization
	fmt.Fprintf(tw, "Scripts removed:\t%d\n", stats.Scripts)
	fmt.Fprintf(tw, "External images replaced:\t%d\n", stats.ExternalImages)
	fmt.Fprintf(tw, "Inline images stripped:\t%d\n", stats.Base64Images)
	fmt.Fprintf(tw, "Style blocks removed:\t%d\n", stats.StyleBlocks)
	fmt.Fprintf(tw, "Tracking pixels removed:\t%d\n", stats.TrackingPixels)
	if !sum.FirstDate.IsZero() {
		fmt.Fprintf(tw, "Date range:\t%s to %s\n",
			sum.FirstDate.Format("2006-01-02"), sum.LastDate.Format("2006-01-02"))
	}
	_ = tw.Flush()

	abs, err := filepath.Abs(indexPath)
	if err != nil {
		abs = indexPath
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Open %s to browse the archive,\n", abs)
	fmt.Fprintln(w, "or copy the whole output directory anywhere - it works offline.")
}
