package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"radicado/internal/config"
)

// chromeConverter prints HTML editable artifacts to PDF via headless
// Chromium. It is an in-process alternative to the HTTP collaborator for
// deployments that keep drafts as HTML.
type chromeConverter struct {
	chromiumPath string
	timeout      time.Duration
}

// NewChrome creates a headless-Chromium converter.
func NewChrome(cfg config.ConverterConfig) Converter {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &chromeConverter{
		chromiumPath: cfg.ChromiumPath,
		timeout:      timeout,
	}
}

// Convert navigates to the source URL and prints it to PDF. If Chromium is
// unavailable or the print exceeds the timeout, the whole operation fails.
func (c *chromeConverter) Convert(ctx context.Context, req Request) ([]byte, error) {
	if req.SourceFormat != "html" {
		return nil, fmt.Errorf("%w: chrome converter only handles html, got %q", ErrConversionFailed, req.SourceFormat)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if c.chromiumPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.chromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, c.timeout)
	defer cancelTimeout()

	var pdfBuf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(req.SourceURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, perr := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if perr == nil {
				pdfBuf = buf
			}
			return perr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: chromedp run: %v", ErrConversionFailed, err)
	}
	return pdfBuf, nil
}
