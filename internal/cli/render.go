package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/site"
)

// renderOptions holds the flags of the render command.
type renderOptions struct {
	out     string
	baseURL string
	locales []string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [locale page]",
		Short: "Render pages to files or stdout",
		Long: `Render the site without serving it.

Without arguments every page of every locale is written below --out as
<locale>/<page>/index.html, together with the static assets. With a locale
and a page, that single page is written to stdout. Use "home" for the
home page.`,
		Example: `  # Export the whole site
  wallie render --out dist

  # Print the English FAQ
  wallie render en faq`,
		Args: cobra.MatchAll(cobra.RangeArgs(0, 2), func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("expected a locale and a page, got %q", args[0])
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := i18n.Embedded()
			if err != nil {
				return err
			}
			s, err := site.New(catalog, site.Options{
				BaseURL: opts.baseURL,
				Logger:  loggerFromContext(cmd.Context()),
			})
			if err != nil {
				return err
			}

			if len(args) == 2 {
				return renderOne(cmd, s, args[0], args[1])
			}
			return renderAll(cmd.Context(), cmd, s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "dist", "output directory")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "public origin used in canonical links")
	cmd.Flags().StringSliceVar(&opts.locales, "locale", nil, "locales to render (default all)")

	return cmd
}

func renderOne(cmd *cobra.Command, s *site.Site, locale, page string) error {
	l, err := i18n.Parse(locale)
	if err != nil {
		return err
	}
	if page == "home" {
		page = ""
	}
	p, err := site.ParsePage(page)
	if err != nil {
		return err
	}
	html, err := s.Render(cmd.Context(), l, p)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(html)
	return err
}

func renderAll(ctx context.Context, cmd *cobra.Command, s *site.Site, opts renderOptions) error {
	locales := i18n.Supported
	if len(opts.locales) > 0 {
		locales = nil
		for _, code := range opts.locales {
			l, err := i18n.Parse(code)
			if err != nil {
				return err
			}
			locales = append(locales, l)
		}
	}

	prog := newProgress(loggerFromContext(ctx))
	out := cmd.OutOrStdout()
	count := 0
	for _, l := range locales {
		for _, p := range site.Pages {
			html, err := s.Render(ctx, l, p)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.out, filepath.FromSlash(p.Path(l)), "index.html")
			if err := writeFile(path, html); err != nil {
				return err
			}
			printFile(out, path)
			count++
		}
	}

	assets, err := copyStatic(filepath.Join(opts.out, "static"))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d pages", count))
	printSuccess(out, "Wrote %s pages and %s assets to %s",
		StyleNumber.Render(fmt.Sprint(count)), StyleNumber.Render(fmt.Sprint(assets)), opts.out)
	return nil
}

// copyStatic writes the embedded static assets below dir.
func copyStatic(dir string) (int, error) {
	static := site.Static()
	count := 0
	err := fs.WalkDir(static, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, name)
		if err != nil {
			return err
		}
		count++
		return writeFile(filepath.Join(dir, filepath.FromSlash(name)), data)
	})
	return count, err
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
