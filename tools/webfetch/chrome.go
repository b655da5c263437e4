package webfetch

import (
	"context"

	"github.com/chromedp/chromedp"

	"contentagent/tools"
)

// ChromeFetcher renders the page in headless Chrome before handing the DOM
// back, which captures pages that only produce content through scripts.
type ChromeFetcher struct {
	UserAgent string
}

func (f *ChromeFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", true))
	if f.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.UserAgent))
	}
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var rawHTML string
	err := chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &rawHTML, chromedp.ByQuery),
	)
	if err != nil {
		return "", tools.Upstreamf("render %s: %v", pageURL, err)
	}
	return rawHTML, nil
}
