package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightOptions configures the headless browser
type PlaywrightOptions struct {
	Headless          bool
	ProxyServer       string
	NavigationTimeout time.Duration
}

// PlaywrightBrowser implements Browser with a shared Chromium instance.
// Each session gets its own browser context.
type PlaywrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    PlaywrightOptions
}

// NewPlaywrightBrowser starts the playwright driver and launches Chromium
func NewPlaywrightBrowser(opts PlaywrightOptions) (*PlaywrightBrowser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.ProxyServer != "" {
		launch.Proxy = &playwright.Proxy{Server: opts.ProxyServer}
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &PlaywrightBrowser{pw: pw, browser: browser, opts: opts}, nil
}

// NewSession opens a page in a fresh browser context
func (b *PlaywrightBrowser) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := b.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	if b.opts.NavigationTimeout > 0 {
		ms := float64(b.opts.NavigationTimeout.Milliseconds())
		page.SetDefaultTimeout(ms)
		page.SetDefaultNavigationTimeout(ms)
	}

	return &playwrightSession{bctx: bctx, page: page}, nil
}

// Close shuts down the browser and the driver
func (b *PlaywrightBrowser) Close() error {
	if err := b.browser.Close(); err != nil {
		b.pw.Stop()
		return fmt.Errorf("could not close browser: %w", err)
	}
	return b.pw.Stop()
}

type playwrightSession struct {
	bctx playwright.BrowserContext
	page playwright.Page
}

func (s *playwrightSession) Navigate(url string) error {
	_, err := s.page.Goto(url)
	return err
}

func (s *playwrightSession) WaitForNetworkIdle() error {
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

func (s *playwrightSession) Content() (string, error) {
	return s.page.Content()
}

func (s *playwrightSession) SelectOption(selector, value string) error {
	return selectValueOrLabel(s.page.Locator(selector), value)
}

func (s *playwrightSession) SelectOptionByLabel(label, value string) error {
	return selectValueOrLabel(s.page.GetByLabel(label, playwright.PageGetByLabelOptions{
		Exact: playwright.Bool(false),
	}), value)
}

func (s *playwrightSession) Click(selector string) error {
	return s.page.Locator(selector).Click()
}

func (s *playwrightSession) Close() error {
	return s.bctx.Close()
}

// selectValueOrLabel matches the option by value first, then by its visible label
func selectValueOrLabel(locator playwright.Locator, value string) error {
	values := []string{value}
	_, err := locator.SelectOption(playwright.SelectOptionValues{Values: &values})
	if err == nil {
		return nil
	}
	if _, lerr := locator.SelectOption(playwright.SelectOptionValues{Labels: &values}); lerr != nil {
		return fmt.Errorf("no option %q: %w", value, err)
	}
	return nil
}
